package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned by Enqueue before Start or after Stop.
	ErrNotStarted = errors.New("jobs: queue not running")
	// ErrDuplicate is returned when a job with the same Key is already pending or running.
	ErrDuplicate = errors.New("jobs: job with the same key is already pending")
	// ErrUnknownType is returned for job types without a registered handler.
	ErrUnknownType = errors.New("jobs: no handler for job type")
)

// Job is one unit of background work. Jobs sharing a non-empty Key are coalesced:
// while one is queued, retrying or running, further enqueues are rejected.
type Job struct {
	ID       string
	Type     string
	Key      string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	// JobTimeout bounds a single handler invocation; zero means no bound.
	JobTimeout time.Duration
	Logger     *zap.Logger
}

// Stats counts job outcomes since the queue was built.
type Stats struct {
	Enqueued  uint64
	Succeeded uint64
	Retried   uint64
	Failed    uint64
	Pending   int
}

// Queue dispatches jobs to handlers by Type on a fixed pool of goroutines.
type Queue struct {
	name string
	cfg  QueueConfig
	log  *zap.SugaredLogger

	mu       sync.Mutex
	handlers map[string]Handler
	inflight map[string]struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool

	jobs chan Job
	wg   sync.WaitGroup

	enqueued, succeeded, retried, failed uint64
}

// NewQueue builds an empty queue; register handlers before Start.
func NewQueue(name string, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:     name,
		cfg:      cfg,
		log:      cfg.Logger.Sugar().With("queue", name),
		handlers: make(map[string]Handler),
		inflight: make(map[string]struct{}),
		jobs:     make(chan Job, cfg.BufferSize),
	}
}

// Register binds a handler to a job type.
func (q *Queue) Register(jobType string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

// Start launches the workers. Calling it on a running queue is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.running = true
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.work(q.ctx)
	}
	q.log.Infow("queue started", "workers", q.cfg.Workers)
}

// Stop cancels in-flight handlers and waits for the workers and pending retries to
// exit. Queued jobs are dropped along with their key reservations, so a restarted
// queue accepts every key again.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()

	dropped := 0
	for drained := false; !drained; {
		select {
		case <-q.jobs:
			dropped++
		default:
			drained = true
		}
	}
	q.mu.Lock()
	q.inflight = make(map[string]struct{})
	q.mu.Unlock()
	q.log.Infow("queue stopped", "dropped", dropped)
}

// Enqueue queues job for processing. It blocks while the buffer is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotStarted, q.name)
	}
	if _, ok := q.handlers[job.Type]; !ok {
		q.mu.Unlock()
		return fmt.Errorf("%w %q", ErrUnknownType, job.Type)
	}
	if job.Key != "" {
		if _, busy := q.inflight[job.Key]; busy {
			q.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicate, job.Key)
		}
		q.inflight[job.Key] = struct{}{}
	}
	ctx := q.ctx
	q.mu.Unlock()

	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	if err := q.push(ctx, job); err != nil {
		q.release(job.Key)
		return err
	}
	atomic.AddUint64(&q.enqueued, 1)
	return nil
}

// Stats returns a snapshot of job counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending := len(q.inflight)
	q.mu.Unlock()
	return Stats{
		Enqueued:  atomic.LoadUint64(&q.enqueued),
		Succeeded: atomic.LoadUint64(&q.succeeded),
		Retried:   atomic.LoadUint64(&q.retried),
		Failed:    atomic.LoadUint64(&q.failed),
		Pending:   pending,
	}
}

func (q *Queue) push(ctx context.Context, job Job) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %s", ErrNotStarted, q.name)
	case q.jobs <- job:
		return nil
	}
}

func (q *Queue) release(key string) {
	if key == "" {
		return
	}
	q.mu.Lock()
	delete(q.inflight, key)
	q.mu.Unlock()
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.run(ctx, job)
		}
	}
}

func (q *Queue) run(queueCtx context.Context, job Job) {
	q.mu.Lock()
	handler := q.handlers[job.Type]
	q.mu.Unlock()

	ctx := queueCtx
	if q.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.cfg.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := handler(ctx, job)
	if err == nil {
		atomic.AddUint64(&q.succeeded, 1)
		q.release(job.Key)
		q.log.Debugw("job done", "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "took", time.Since(start))
		return
	}
	q.retry(queueCtx, job, err)
}

// retry re-queues job after RetryDelay while attempts remain. The job keeps its
// Key reservation until it either succeeds or is given up on.
func (q *Queue) retry(ctx context.Context, job Job, err error) {
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		atomic.AddUint64(&q.failed, 1)
		q.release(job.Key)
		q.log.Errorw("job exceeded retries", "job_id", job.ID, "type", job.Type, "attempts", job.Attempt, "error", err)
		return
	}
	atomic.AddUint64(&q.retried, 1)
	q.log.Warnw("job failed, retrying", "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", err)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		timer := time.NewTimer(q.cfg.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			q.release(job.Key)
		case <-timer.C:
			if err := q.push(ctx, job); err != nil {
				q.release(job.Key)
				q.log.Errorw("requeue failed", "job_id", job.ID, "error", err)
			}
		}
	}()
}
