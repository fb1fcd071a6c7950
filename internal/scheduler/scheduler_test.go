package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/testing/leaktest"
	"github.com/osse101/MediDispenser_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	RunCount atomic.Int32
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	m.RunCount.Add(1)
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

// fullQueue rejects every job
type fullQueue struct {
	attempts atomic.Int32
}

func (q *fullQueue) TryEnqueue(job worker.Job) bool {
	q.attempts.Add(1)
	return false
}

func TestScheduler(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	job := &MockJob{
		Done: make(chan struct{}, 10),
	}

	sched.Schedule(10*time.Millisecond, job)

	timeout := time.After(time.Second)
	runCount := 0

	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	assert.GreaterOrEqual(t, job.RunCount.Load(), int32(2))
}

func TestScheduler_FullQueueDoesNotBlock(t *testing.T) {
	q := &fullQueue{}
	sched := New(q)
	sched.Schedule(5*time.Millisecond, &MockJob{Done: make(chan struct{}, 1)})

	require.Eventually(t, func() bool { return q.attempts.Load() >= 3 }, time.Second, 5*time.Millisecond)
	sched.Stop()
}

func TestScheduler_StopReleasesGoroutines(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		sched := New(&fullQueue{})
		sched.Schedule(time.Hour, &MockJob{})
		sched.Schedule(time.Hour, &MockJob{})
		sched.Stop()
		sched.Stop()
	})
}
