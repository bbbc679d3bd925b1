package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// AsyncDispatcher runs each job on its own goroutine, detached from the
// request context. Failures and panics are logged and swallowed.
type AsyncDispatcher struct {
	handler JobHandler
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncDispatcher(handler JobHandler, logger *slog.Logger, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncDispatcher{handler: handler, logger: logger, timeout: timeout}
}

// Dispatch starts job in the background. Jobs arriving after Shutdown are dropped.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, job BadgeJob) {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.logger.WarnContext(ctx, "badge job dropped during shutdown", "kind", job.Kind, "participant_id", job.ParticipantID)
		return
	}
	d.wg.Add(1)
	d.mu.RUnlock()

	go func() {
		defer d.wg.Done()
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := RunJob(jobCtx, d.handler, job); err != nil {
			d.logger.ErrorContext(jobCtx, "badge evaluation failed",
				"kind", job.Kind, "participant_id", job.ParticipantID, "error", err)
		}
	}()
}

// Wait blocks until in-flight jobs finish or ctx is done.
func (d *AsyncDispatcher) Wait(ctx context.Context) error {
	return waitGroup(ctx, &d.wg)
}

// Shutdown stops accepting jobs and waits for the in-flight ones.
func (d *AsyncDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return waitGroup(ctx, &d.wg)
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunJob calls handler.Handle, turning a panic into an error.
func RunJob(ctx context.Context, handler JobHandler, job BadgeJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("badge job panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, job)
}
