package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	"github.com/noah-isme/madrasah-analytics-api/pkg/export"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
)

// MetricsProvider supplies the metric tables rendered by ExportService; satisfied by
// AnalyticsService.
type MetricsProvider interface {
	Students(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.StudentMetrics, bool, error)
	Classes(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.ClassMetrics, bool, error)
	Teachers(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.TeacherMetrics, bool, error)
	Program(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.ProgramMetrics, bool, error)
}

// ExportResult is a rendered export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders metric tables as CSV, PDF or XLSX.
type ExportService struct {
	metrics   MetricsProvider
	renderers map[models.ExportFormat]export.Renderer
	logger    *zap.Logger
}

// DefaultRenderers is the renderer registry used when none is supplied.
func DefaultRenderers() map[models.ExportFormat]export.Renderer {
	return map[models.ExportFormat]export.Renderer{
		models.ExportFormatCSV:  export.NewCSVExporter(),
		models.ExportFormatPDF:  export.NewPDFExporter(),
		models.ExportFormatXLSX: export.NewXLSXExporter(),
	}
}

// NewExportService constructs an ExportService; nil renderers select DefaultRenderers.
func NewExportService(metrics MetricsProvider, logger *zap.Logger, renderers map[models.ExportFormat]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderers == nil {
		renderers = DefaultRenderers()
	}
	return &ExportService{metrics: metrics, renderers: renderers, logger: logger}
}

// Export renders view for the madrasah and window in format.
func (s *ExportService) Export(ctx context.Context, madrasahID string, requested *models.TimeRange, view models.ExportView, format models.ExportFormat) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	dataset, err := s.buildDataset(ctx, madrasahID, requested, view)
	if err != nil {
		return nil, err
	}
	dataset.Sheet = string(view)
	dataset.Subtitle = describeWindow(madrasahID, requested)

	payload, err := renderer.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export")
	}

	s.logger.Debug("export rendered",
		zap.String("madrasah_id", madrasahID),
		zap.String("view", string(view)),
		zap.String("format", string(format)),
		zap.Int("rows", len(dataset.Rows)))

	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", sanitizeFilename(madrasahID), view, format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) buildDataset(ctx context.Context, madrasahID string, requested *models.TimeRange, view models.ExportView) (*export.Dataset, error) {
	switch view {
	case models.ExportViewStudents:
		rows, _, err := s.metrics.Students(ctx, madrasahID, requested)
		if err != nil {
			return nil, err
		}
		return studentDataset(rows), nil
	case models.ExportViewClasses:
		rows, _, err := s.metrics.Classes(ctx, madrasahID, requested)
		if err != nil {
			return nil, err
		}
		return classDataset(rows), nil
	case models.ExportViewTeachers:
		rows, _, err := s.metrics.Teachers(ctx, madrasahID, requested)
		if err != nil {
			return nil, err
		}
		return teacherDataset(rows), nil
	case models.ExportViewProgram:
		program, _, err := s.metrics.Program(ctx, madrasahID, requested)
		if err != nil {
			return nil, err
		}
		return programDataset(program), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export view %q", view))
	}
}

func studentDataset(rows []models.StudentMetrics) *export.Dataset {
	d := export.NewDataset("Student metrics", "Student ID", "Name", "Section", "Attendance (%)", "Pace (pages/week)",
		"Days Since Progress", "Stagnant", "Risk Score", "At Risk", "Drop-off Probability", "On Track")
	for _, m := range rows {
		d.Append(m.StudentID, m.Name, m.Section, formatRate(m.AttendanceRate), formatFloat(m.Pace),
			formatInt(m.DaysSinceLastProgress), strconv.FormatBool(m.Stagnant), formatFloat(m.RiskScore),
			strconv.FormatBool(m.AtRisk), formatFloat(m.DropOffProbability), strconv.FormatBool(m.OnTrack))
	}
	return d
}

func classDataset(rows []models.ClassMetrics) *export.Dataset {
	d := export.NewDataset("Class metrics", "Class ID", "Name", "Enrolled", "Capacity (%)", "Average Pace", "Pace Variance",
		"At Risk (%)", "Attendance (%)", "Sessions (%)", "Drop-off (%)")
	for _, m := range rows {
		d.Append(m.ClassID, m.Name, strconv.Itoa(m.Enrolled), formatRate(m.CapacityUtilization), formatRate(m.AveragePace),
			formatRate(m.PaceVariance), formatRate(m.AtRiskShare), formatRate(m.AttendanceRate),
			formatRate(m.SessionRatio), formatRate(m.DropOffRate))
	}
	return d
}

func teacherDataset(rows []models.TeacherMetrics) *export.Dataset {
	d := export.NewDataset("Teacher metrics", "Teacher ID", "Name", "Classes", "Students", "At Risk", "Average Pace",
		"Reliability (%)", "Cancellations (%)", "Grading (hours)")
	for _, m := range rows {
		d.Append(m.TeacherID, m.Name, strconv.Itoa(m.Classes), strconv.Itoa(m.Students), strconv.Itoa(m.AtRiskStudents),
			formatRate(m.AveragePace), formatRate(m.SessionReliability), formatRate(m.CancellationRate),
			formatRate(m.GradingTurnaroundHours))
	}
	return d
}

func programDataset(m *models.ProgramMetrics) *export.Dataset {
	d := export.NewDataset("Program metrics", "Metric", "Value")
	d.Append("Total Students", strconv.Itoa(m.TotalStudents))
	d.Append("Active Students", strconv.Itoa(m.ActiveStudents))
	d.Append("Teachers", strconv.Itoa(m.Teachers))
	d.Append("Classes", strconv.Itoa(m.Classes))
	d.Append("Average Pace", formatRate(m.AveragePace))
	d.Append("Attendance (%)", formatRate(m.AttendanceRate))
	d.Append("Students On Track (%)", formatRate(m.StudentsOnTrack))
	d.Append("At Risk Students", strconv.Itoa(m.AtRiskStudents))
	d.Append("Stagnant Students", strconv.Itoa(m.StagnantStudents))
	d.Append("Capacity Utilization (%)", formatRate(m.CapacityUtilization))
	d.Append("Retention (%)", formatRate(m.RetentionRate))
	return d
}

func describeWindow(madrasahID string, requested *models.TimeRange) string {
	if requested == nil {
		return "Madrasah " + madrasahID + ", default window"
	}
	return fmt.Sprintf("Madrasah %s, %s to %s", madrasahID,
		requested.From.Format("2006-01-02"), requested.To.Format("2006-01-02"))
}

func formatRate(v *float64) string {
	if v == nil {
		return export.Placeholder
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return export.Placeholder
	}
	return strconv.Itoa(*v)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
