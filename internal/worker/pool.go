package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/MediDispenser_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed number of goroutines. Jobs receive a
// context that is cancelled when the pool stops.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(id, job)
		case <-p.ctx.Done():
			return
		}
	}
}

// run isolates a job so a panic does not take the worker down with it
func (p *Pool) run(id int, job Job) {
	log := logger.FromContext(p.ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobFailed, "worker", id, "job", jobName(job), "panic", r)
		}
	}()

	if err := job.Process(p.ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "worker", id, "job", jobName(job), "error", err)
	}
}

// Enqueue blocks until the job is queued or the pool stops. It reports
// whether the job was queued.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TryEnqueue queues the job only if there is room
func (p *Pool) TryEnqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgWorkerJobDropped, "job", jobName(job))
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// that have not started are discarded.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		logger.FromContext(p.ctx).Info(LogMsgWorkerPoolStop, "workers", p.workers)
		p.cancel()
		p.wg.Wait()
	})
}

func jobName(job Job) string {
	if s, ok := job.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", job)
}
