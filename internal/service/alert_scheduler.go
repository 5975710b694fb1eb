package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/madrasah-analytics-api/pkg/jobs"
)

// JobTypeAlertsRefresh is the queue job type handled by the scheduler.
const JobTypeAlertsRefresh = "alerts.refresh"

// AlertRefresher refreshes persisted alerts for one madrasah.
type AlertRefresher interface {
	Refresh(ctx context.Context, madrasahID string) (RefreshResult, error)
}

// MadrasahLister enumerates tenants when none are configured explicitly.
type MadrasahLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// JobQueue is the subset of jobs.Queue the scheduler needs.
type JobQueue interface {
	Register(jobType string, handler jobs.Handler)
	Enqueue(job jobs.Job) error
}

// AlertScheduler enqueues refresh jobs on a fixed interval.
type AlertScheduler struct {
	queue       JobQueue
	refresher   AlertRefresher
	lister      MadrasahLister
	madrasahIDs []string
	interval    time.Duration
	logger      *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAlertScheduler registers the refresh handler on queue. A non-empty madrasahIDs
// list overrides lister.
func NewAlertScheduler(queue JobQueue, refresher AlertRefresher, lister MadrasahLister, madrasahIDs []string, interval time.Duration, logger *zap.Logger) *AlertScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AlertScheduler{
		queue:       queue,
		refresher:   refresher,
		lister:      lister,
		madrasahIDs: madrasahIDs,
		interval:    interval,
		logger:      logger,
	}
	queue.Register(JobTypeAlertsRefresh, s.handle)
	return s
}

// Start launches the ticker loop; an initial pass runs immediately.
func (s *AlertScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
	s.logger.Info("alert scheduler started", zap.Duration("interval", s.interval))
}

// Stop halts the loop and waits for it to exit.
func (s *AlertScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *AlertScheduler) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.EnqueueAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EnqueueAll(ctx)
		}
	}
}

// EnqueueAll queues one refresh job per madrasah and returns how many were accepted.
func (s *AlertScheduler) EnqueueAll(ctx context.Context) int {
	ids := s.madrasahIDs
	if len(ids) == 0 && s.lister != nil {
		listed, err := s.lister.ListIDs(ctx)
		if err != nil {
			s.logger.Error("list madrasahs for alert refresh", zap.Error(err))
			return 0
		}
		ids = listed
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	queued := 0
	for _, id := range ids {
		job := jobs.Job{
			ID:      fmt.Sprintf("%s:%s:%s", JobTypeAlertsRefresh, id, stamp),
			Type:    JobTypeAlertsRefresh,
			Key:     JobTypeAlertsRefresh + ":" + id,
			Payload: id,
		}
		if err := s.queue.Enqueue(job); err != nil {
			if errors.Is(err, jobs.ErrDuplicate) {
				s.logger.Debug("alert refresh still pending, skipped", zap.String("madrasah_id", id))
				continue
			}
			s.logger.Warn("enqueue alert refresh", zap.String("madrasah_id", id), zap.Error(err))
			continue
		}
		queued++
	}
	return queued
}

func (s *AlertScheduler) handle(ctx context.Context, job jobs.Job) error {
	madrasahID, ok := job.Payload.(string)
	if !ok || madrasahID == "" {
		return fmt.Errorf("alerts refresh job %s: invalid payload", job.ID)
	}
	_, err := s.refresher.Refresh(ctx, madrasahID)
	return err
}
