package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 2})
	received := make(chan Job, 1)
	q.Register("alerts.refresh", func(_ context.Context, job Job) error {
		received <- job
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "alerts.refresh", Payload: "m-1"}))

	select {
	case job := <-received:
		assert.Equal(t, "m-1", job.Payload)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRejectsUnknownTypeAndUnstarted(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	q.Register("known", func(context.Context, Job) error { return nil })

	assert.ErrorIs(t, q.Enqueue(Job{Type: "known"}), ErrNotStarted)

	q.Start(context.Background())
	assert.ErrorIs(t, q.Enqueue(Job{Type: "unknown"}), ErrUnknownType)

	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{Type: "known"}), ErrNotStarted)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	var attempts int32
	done := make(chan struct{})
	q.Register("flaky", func(context.Context, Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j", Type: "flaky"}))

	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
	assert.Eventually(t, func() bool { return q.Stats().Succeeded == 1 }, time.Second, 5*time.Millisecond)
	stats := q.Stats()
	assert.Equal(t, uint64(1), stats.Enqueued)
	assert.Equal(t, uint64(2), stats.Retried)
	assert.Zero(t, stats.Failed)
}

func TestQueueCoalescesJobsByKey(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q.Register("slow", func(context.Context, Job) error {
		started <- struct{}{}
		<-release
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "slow", Key: "m-1"}))
	<-started
	assert.ErrorIs(t, q.Enqueue(Job{ID: "b", Type: "slow", Key: "m-1"}), ErrDuplicate)
	assert.Equal(t, 1, q.Stats().Pending)

	close(release)
	assert.Eventually(t, func() bool { return q.Stats().Pending == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, q.Enqueue(Job{ID: "c", Type: "slow", Key: "m-1"}))
}

func TestQueueGivesUpAndBoundsHandlers(t *testing.T) {
	q := NewQueue("test", QueueConfig{JobTimeout: 10 * time.Millisecond})
	errs := make(chan error, 1)
	q.Register("stuck", func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		errs <- ctx.Err()
		return ctx.Err()
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "s", Type: "stuck", Key: "k"}))
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("handler was not cancelled")
	}
	assert.Eventually(t, func() bool {
		s := q.Stats()
		return s.Failed == 1 && s.Pending == 0
	}, time.Second, 5*time.Millisecond)
}

func TestQueueRestartReleasesDroppedKeys(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 1, BufferSize: 4, MaxRetries: 3, RetryDelay: time.Hour})
	started := make(chan struct{}, 1)
	q.Register("refresh", func(ctx context.Context, job Job) error {
		if job.Key == "m-1" {
			started <- struct{}{}
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "refresh", Key: "m-1"}))
	<-started
	require.NoError(t, q.Enqueue(Job{ID: "b", Type: "refresh", Key: "m-2"}))
	require.NoError(t, q.Enqueue(Job{ID: "c", Type: "refresh", Key: "m-3"}))

	q.Stop()
	assert.Zero(t, q.Stats().Pending)

	q.Start(context.Background())
	defer q.Stop()
	for _, key := range []string{"m-1", "m-2", "m-3"} {
		assert.NoError(t, q.Enqueue(Job{ID: "again-" + key, Type: "refresh", Key: key}), key)
	}
}
