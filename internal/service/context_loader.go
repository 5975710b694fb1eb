package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/madrasah-analytics-api/internal/models"
	appErrors "github.com/noah-isme/madrasah-analytics-api/pkg/errors"
	applog "github.com/noah-isme/madrasah-analytics-api/pkg/logger"
)

// StudentSource lists students of a madrasah.
type StudentSource interface {
	ListStudents(ctx context.Context, madrasahID string) ([]models.Student, error)
}

// TeacherSource lists teachers of a madrasah.
type TeacherSource interface {
	ListTeachers(ctx context.Context, madrasahID string) ([]models.Teacher, error)
}

// ClassSource lists classes of a madrasah.
type ClassSource interface {
	ListClasses(ctx context.Context, madrasahID string) ([]models.Class, error)
}

// ProgressSource lists memorization and revision records inside a window.
type ProgressSource interface {
	ListProgress(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.ProgressEntry, error)
	ListJuzRevisions(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.JuzRevision, error)
	ListSabaqParas(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.SabaqPara, error)
}

// AttendanceSource lists attendance inside a window.
type AttendanceSource interface {
	ListAttendance(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.AttendanceEntry, error)
}

// AssignmentSource lists assignments and submissions inside a window.
type AssignmentSource interface {
	ListAssignments(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Assignment, error)
	ListSubmissions(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Submission, error)
}

// CommunicationSource lists messages inside a window.
type CommunicationSource interface {
	ListCommunications(ctx context.Context, madrasahID string, window models.TimeRange) ([]models.Communication, error)
}

// ContextSources groups the read repositories the loader fans out to.
type ContextSources struct {
	Students       StudentSource
	Teachers       TeacherSource
	Classes        ClassSource
	Progress       ProgressSource
	Attendance     AttendanceSource
	Assignments    AssignmentSource
	Communications CommunicationSource
}

// ContextLoaderConfig tunes the loader.
type ContextLoaderConfig struct {
	Timeout            time.Duration
	DefaultRangeMonths int
	Now                func() time.Time
}

// ContextLoader fetches every collection for a madrasah concurrently and assembles an
// immutable AnalyticsDataContext. Students, teachers and classes are critical; the rest
// degrade to empty collections on failure.
type ContextLoader struct {
	sources       ContextSources
	metrics       *MetricsService
	logger        *zap.Logger
	timeout       time.Duration
	defaultMonths int
	now           func() time.Time
}

// NewContextLoader constructs a loader.
func NewContextLoader(sources ContextSources, cfg ContextLoaderConfig, metrics *MetricsService, logger *zap.Logger) *ContextLoader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DefaultRangeMonths <= 0 {
		cfg.DefaultRangeMonths = 12
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextLoader{
		sources:       sources,
		metrics:       metrics,
		logger:        logger,
		timeout:       cfg.Timeout,
		defaultMonths: cfg.DefaultRangeMonths,
		now:           cfg.Now,
	}
}

// NormalizeRange applies the loader's defaults to a requested window.
func (l *ContextLoader) NormalizeRange(requested *models.TimeRange) (models.TimeRange, error) {
	return models.NormalizeRange(requested, l.now(), l.defaultMonths)
}

// Load normalizes the requested window and builds the data context for it.
func (l *ContextLoader) Load(ctx context.Context, madrasahID string, requested *models.TimeRange) (*models.AnalyticsDataContext, error) {
	window, err := l.NormalizeRange(requested)
	if err != nil {
		return nil, err
	}
	return l.LoadWindow(ctx, madrasahID, window)
}

// LoadWindow builds the data context for an already normalized window.
func (l *ContextLoader) LoadWindow(ctx context.Context, madrasahID string, window models.TimeRange) (*models.AnalyticsDataContext, error) {
	start := time.Now()
	loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(loadCtx)
	var (
		snap     models.DataSnapshot
		mu       sync.Mutex
		degraded []string
	)

	critical := func(name string, fetch func(context.Context) error) {
		g.Go(func() error {
			if err := l.timed(gctx, name, fetch); err != nil {
				return appErrors.CloneWrap(appErrors.ErrCriticalFetch, err, fmt.Sprintf("failed to load %s", name))
			}
			return nil
		})
	}
	optional := func(name string, fetch func(context.Context) error) {
		g.Go(func() error {
			if err := l.timed(gctx, name, fetch); err != nil {
				if gctx.Err() != nil {
					// The load is already failing; this is not a collection fault.
					return nil
				}
				applog.WithContext(ctx, l.logger).Warn("optional analytics collection unavailable",
					zap.String("collection", name),
					zap.String("madrasah_id", madrasahID),
					zap.Error(err))
				l.metrics.RecordFetchFailure(name)
				mu.Lock()
				degraded = append(degraded, name)
				mu.Unlock()
			}
			return nil
		})
	}

	// Each fetch writes a distinct snapshot field.
	critical("students", func(ctx context.Context) (err error) {
		snap.Students, err = l.sources.Students.ListStudents(ctx, madrasahID)
		return err
	})
	critical("teachers", func(ctx context.Context) (err error) {
		snap.Teachers, err = l.sources.Teachers.ListTeachers(ctx, madrasahID)
		return err
	})
	critical("classes", func(ctx context.Context) (err error) {
		snap.Classes, err = l.sources.Classes.ListClasses(ctx, madrasahID)
		return err
	})
	optional("progress", func(ctx context.Context) (err error) {
		snap.Progress, err = l.sources.Progress.ListProgress(ctx, madrasahID, window)
		return err
	})
	optional("juz_revisions", func(ctx context.Context) (err error) {
		snap.JuzRevisions, err = l.sources.Progress.ListJuzRevisions(ctx, madrasahID, window)
		return err
	})
	optional("sabaq_para", func(ctx context.Context) (err error) {
		snap.SabaqParas, err = l.sources.Progress.ListSabaqParas(ctx, madrasahID, window)
		return err
	})
	optional("attendance", func(ctx context.Context) (err error) {
		snap.Attendance, err = l.sources.Attendance.ListAttendance(ctx, madrasahID, window)
		return err
	})
	optional("assignments", func(ctx context.Context) (err error) {
		snap.Assignments, err = l.sources.Assignments.ListAssignments(ctx, madrasahID, window)
		return err
	})
	optional("submissions", func(ctx context.Context) (err error) {
		snap.Submissions, err = l.sources.Assignments.ListSubmissions(ctx, madrasahID, window)
		return err
	})
	optional("communications", func(ctx context.Context) (err error) {
		snap.Communications, err = l.sources.Communications.ListCommunications(ctx, madrasahID, window)
		return err
	})

	if err := l.await(ctx, loadCtx, g); err != nil {
		return nil, err
	}

	l.metrics.ObserveContextLoad(time.Since(start))
	sort.Strings(degraded)
	return models.NewDataContext(madrasahID, window, snap, degraded...), nil
}

// LoadActivity returns the students with attendance or progress inside window. It is
// used for the prior-period retention baseline, so any failure is returned as is.
func (l *ContextLoader) LoadActivity(ctx context.Context, madrasahID string, window models.TimeRange) (ActivitySet, error) {
	loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(loadCtx)
	var snap models.DataSnapshot
	g.Go(func() error {
		return l.timed(gctx, "prior_attendance", func(ctx context.Context) (err error) {
			snap.Attendance, err = l.sources.Attendance.ListAttendance(ctx, madrasahID, window)
			return err
		})
	})
	g.Go(func() error {
		return l.timed(gctx, "prior_progress", func(ctx context.Context) (err error) {
			snap.Progress, err = l.sources.Progress.ListProgress(ctx, madrasahID, window)
			return err
		})
	})
	if err := l.await(ctx, loadCtx, g); err != nil {
		return nil, err
	}
	return ActivityFrom(models.NewDataContext(madrasahID, window, snap)), nil
}

// await returns when every fetch has finished or loadCtx ends, whichever comes first.
// Fetches still running after the deadline are abandoned and their results never read.
func (l *ContextLoader) await(parent, loadCtx context.Context, g *errgroup.Group) error {
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if timeoutErr := l.checkDeadline(parent, loadCtx); timeoutErr != nil {
			return timeoutErr
		}
		return err
	case <-loadCtx.Done():
		return l.checkDeadline(parent, loadCtx)
	}
}

func (l *ContextLoader) timed(ctx context.Context, name string, fetch func(context.Context) error) error {
	start := time.Now()
	err := fetch(ctx)
	l.metrics.ObserveDBQuery("analytics_"+name, time.Since(start))
	return err
}

// checkDeadline maps an expired deadline to ErrAnalyticsTimeout. Cancellation of the
// caller's context is passed through unchanged.
func (l *ContextLoader) checkDeadline(parent, loadCtx context.Context) error {
	if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
		return appErrors.Clone(appErrors.ErrAnalyticsTimeout, fmt.Sprintf("analytics data load exceeded %s", l.timeout))
	}
	return parent.Err()
}
