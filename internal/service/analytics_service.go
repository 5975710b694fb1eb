package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	applog "github.com/noah-isme/madrasah-analytics-api/pkg/logger"
)

const analyticsKeyPrefix = "analytics:"

// Views cached by AnalyticsService.
const (
	ViewStudents = "students"
	ViewClasses  = "classes"
	ViewTeachers = "teachers"
	ViewProgram  = "program"
	ViewReport   = "report"
)

// PriorPeriodCollection is listed in a report's degraded set when the prior-period
// baseline could not be loaded.
const PriorPeriodCollection = "prior_period"

// DataContextLoader builds analytics contexts; satisfied by ContextLoader.
type DataContextLoader interface {
	NormalizeRange(requested *models.TimeRange) (models.TimeRange, error)
	LoadWindow(ctx context.Context, madrasahID string, window models.TimeRange) (*models.AnalyticsDataContext, error)
	LoadActivity(ctx context.Context, madrasahID string, window models.TimeRange) (ActivitySet, error)
}

// AnalyticsService runs the calculators over loaded contexts and caches the results.
type AnalyticsService struct {
	loader   DataContextLoader
	students *StudentMetricsCalculator
	classes  *ClassMetricsCalculator
	teachers *TeacherMetricsCalculator
	program  *ProgramMetricsCalculator
	engine   *AlertEngine
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	ttl      time.Duration
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(loader DataContextLoader, policy Policy, engine *AlertEngine, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if engine == nil {
		engine = NewAlertEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		loader:   loader,
		students: NewStudentMetricsCalculator(policy),
		classes:  NewClassMetricsCalculator(policy),
		teachers: NewTeacherMetricsCalculator(policy),
		program:  NewProgramMetricsCalculator(policy),
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		ttl:      ttl,
	}
}

// Students returns metrics for every active student. The boolean reports a cache hit.
func (s *AnalyticsService) Students(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.StudentMetrics, bool, error) {
	return cachedView(ctx, s, madrasahID, requested, ViewStudents, func(dc *models.AnalyticsDataContext) ([]models.StudentMetrics, bool, error) {
		return s.students.Calculate(dc), true, nil
	})
}

// Student returns metrics for one active student.
func (s *AnalyticsService) Student(ctx context.Context, madrasahID, studentID string, requested *models.TimeRange) (*models.StudentMetrics, bool, error) {
	students, hit, err := s.Students(ctx, madrasahID, requested)
	if err != nil {
		return nil, false, err
	}
	for i := range students {
		if students[i].StudentID == studentID {
			return &students[i], hit, nil
		}
	}
	return nil, hit, appErrors.Clone(appErrors.ErrNotFound, "student not found or inactive")
}

// Classes returns metrics for every class.
func (s *AnalyticsService) Classes(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.ClassMetrics, bool, error) {
	return cachedView(ctx, s, madrasahID, requested, ViewClasses, func(dc *models.AnalyticsDataContext) ([]models.ClassMetrics, bool, error) {
		return s.classes.Calculate(dc, s.students.Calculate(dc)), true, nil
	})
}

// Teachers returns metrics for every active teacher.
func (s *AnalyticsService) Teachers(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.TeacherMetrics, bool, error) {
	return cachedView(ctx, s, madrasahID, requested, ViewTeachers, func(dc *models.AnalyticsDataContext) ([]models.TeacherMetrics, bool, error) {
		students := s.students.Calculate(dc)
		return s.teachers.Calculate(dc, students, s.classes.Calculate(dc, students)), true, nil
	})
}

// Program returns institution-wide metrics.
func (s *AnalyticsService) Program(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.ProgramMetrics, bool, error) {
	return cachedView(ctx, s, madrasahID, requested, ViewProgram, func(dc *models.AnalyticsDataContext) (*models.ProgramMetrics, bool, error) {
		report, complete := s.compute(ctx, dc)
		return &report.Program, complete, nil
	})
}

// Report returns every view for the window in one payload.
func (s *AnalyticsService) Report(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.AnalyticsReport, bool, error) {
	return cachedView(ctx, s, madrasahID, requested, ViewReport, func(dc *models.AnalyticsDataContext) (*models.AnalyticsReport, bool, error) {
		report, complete := s.compute(ctx, dc)
		return report, complete, nil
	})
}

// Alerts evaluates the alert engine against fresh metrics. Results are not cached.
func (s *AnalyticsService) Alerts(ctx context.Context, madrasahID string, requested *models.TimeRange) ([]models.AnalyticsAlert, error) {
	window, err := s.loader.NormalizeRange(requested)
	if err != nil {
		return nil, err
	}
	dc, err := s.loader.LoadWindow(ctx, madrasahID, window)
	if err != nil {
		return nil, err
	}
	report, _ := s.compute(ctx, dc)
	alerts := s.engine.Evaluate(EvaluationInput{
		MadrasahID: madrasahID,
		Range:      window,
		Students:   report.Students,
		Classes:    report.Classes,
		Teachers:   report.Teachers,
		Program:    report.Program,
	})
	s.metrics.RecordAlerts(alerts)
	return alerts, nil
}

// Invalidate drops every cached view of the madrasah. Operators call it after
// correcting source data so the next request recomputes.
func (s *AnalyticsService) Invalidate(ctx context.Context, madrasahID string) error {
	return s.cache.Invalidate(ctx, madrasahID)
}

// SystemMetrics returns system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	return s.metrics.Snapshot()
}

// compute runs every calculator. The prior period is loaded for retention; failing
// that leaves retention null, marks the report degraded and reports it incomplete.
func (s *AnalyticsService) compute(ctx context.Context, dc *models.AnalyticsDataContext) (*models.AnalyticsReport, bool) {
	students := s.students.Calculate(dc)
	classes := s.classes.Calculate(dc, students)
	teachers := s.teachers.Calculate(dc, students, classes)

	degraded := dc.Degraded()
	prior, err := s.loader.LoadActivity(ctx, dc.MadrasahID(), dc.Window().Previous())
	if err != nil {
		applog.WithContext(ctx, s.logger).Warn("prior period unavailable, retention not computed",
			zap.String("madrasah_id", dc.MadrasahID()), zap.Error(err))
		prior = nil
		degraded = append(append([]string{}, degraded...), PriorPeriodCollection)
	}

	return &models.AnalyticsReport{
		MadrasahID: dc.MadrasahID(),
		Range:      dc.Window(),
		Degraded:   degraded,
		Students:   students,
		Classes:    classes,
		Teachers:   teachers,
		Program:    s.program.Calculate(dc, students, classes, prior),
	}, err == nil
}

func cachedView[T any](ctx context.Context, s *AnalyticsService, madrasahID string, requested *models.TimeRange, view string, build func(*models.AnalyticsDataContext) (T, bool, error)) (T, bool, error) {
	var zero T
	window, err := s.loader.NormalizeRange(requested)
	if err != nil {
		return zero, false, err
	}

	key := AnalyticsCacheKey(madrasahID, window, view)
	var cached T
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	dc, err := s.loader.LoadWindow(ctx, madrasahID, window)
	if err != nil {
		return zero, false, err
	}
	result, complete, err := build(dc)
	if err != nil {
		return zero, false, err
	}
	// Degraded results are not cached so a recovered collection shows up on the next request.
	if complete && len(dc.Degraded()) == 0 {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			applog.WithContext(ctx, s.logger).Warn("cache analytics view", zap.String("view", view), zap.Error(err))
		}
	}
	return result, false, nil
}

// AnalyticsCacheKey renders analytics:<madrasah>:<from>:<to>:<view>.
func AnalyticsCacheKey(madrasahID string, window models.TimeRange, view string) string {
	parts := []string{
		escapeKeyPart(madrasahID),
		escapeKeyPart(window.From.UTC().Format(time.RFC3339)),
		escapeKeyPart(window.To.UTC().Format(time.RFC3339)),
		view,
	}
	var builder strings.Builder
	builder.Grow(len(analyticsKeyPrefix) + len(parts)*24)
	builder.WriteString(analyticsKeyPrefix)
	builder.WriteString(strings.Join(parts, ":"))
	return builder.String()
}

func escapeKeyPart(part string) string {
	return strings.NewReplacer(":", "|", "*", "_").Replace(part)
}
