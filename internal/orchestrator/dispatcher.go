package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agenticum/agenticum/pkg/domain"
)

// Dispatcher runs approved resumes in the background so the approve
// endpoint can acknowledge immediately. Delivery is at-most-once: a
// process crash mid-resume leaves the session in running, which the
// console surfaces as a stalled run.
type Dispatcher struct {
	engine *Engine
	logger *slog.Logger

	jobs chan resumeJob
	wg   sync.WaitGroup

	closeOnce sync.Once
}

type resumeJob struct {
	sessionID string
	approval  domain.Approval
}

// NewDispatcher starts the given number of resume workers over a
// buffered queue.
func NewDispatcher(engine *Engine, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		engine: engine,
		logger: logger,
		jobs:   make(chan resumeJob, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue queues a resume without waiting for it to run. Fails when the
// queue is full rather than blocking the caller.
func (d *Dispatcher) Enqueue(sessionID string, approval domain.Approval) error {
	select {
	case d.jobs <- resumeJob{sessionID: sessionID, approval: approval}:
		return nil
	default:
		return fmt.Errorf("resume queue is full")
	}
}

// Close stops accepting jobs and waits for in-flight resumes.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		// Background work carries its own context: the HTTP request
		// that queued the job is long gone.
		if err := d.engine.Resume(context.Background(), job.sessionID, job.approval); err != nil {
			d.logger.Error("background resume failed", "session", job.sessionID, "error", err)
		}
	}
}
