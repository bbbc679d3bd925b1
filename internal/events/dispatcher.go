package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"quizpulse-service/internal/app"
)

// Dispatcher publishes badge jobs to a topic instead of running them in
// process. A Consumer on the other side executes them.
type Dispatcher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(publisher message.Publisher, topic string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, topic: topic, logger: logger}
}

// Dispatch publishes in the background; failures are logged and dropped, as
// are jobs arriving after Shutdown.
func (d *Dispatcher) Dispatch(ctx context.Context, job app.BadgeJob) {
	payload, err := json.Marshal(job)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to marshal badge job", "kind", job.Kind, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", string(job.Kind))
	if job.ParticipantID != "" {
		msg.Metadata.Set("participant_id", job.ParticipantID)
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.logger.WarnContext(ctx, "badge job dropped during shutdown", "message_id", msg.UUID, "kind", job.Kind)
		return
	}
	d.wg.Add(1)
	d.mu.RUnlock()

	go func() {
		defer d.wg.Done()
		if err := d.publisher.Publish(d.topic, msg); err != nil {
			d.logger.Error("failed to publish badge job",
				"message_id", msg.UUID, "kind", job.Kind, "topic", d.topic, "error", err)
			return
		}
		d.logger.Debug("published badge job", "message_id", msg.UUID, "kind", job.Kind, "topic", d.topic)
	}()
}

// Wait blocks until pending publishes return or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for pending publishes.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Wait(ctx)
}

func (d *Dispatcher) Close() error {
	return d.publisher.Close()
}
