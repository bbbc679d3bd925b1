package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"quizpulse-service/internal/app"
)

// Consumer feeds badge jobs from a topic into a handler. Every message is
// acked, including ones that fail: badge evaluation is best effort and a
// later answer re-evaluates the same participant.
type Consumer struct {
	subscriber message.Subscriber
	handler    app.JobHandler
	topic      string
	logger     *slog.Logger
}

func NewConsumer(subscriber message.Subscriber, handler app.JobHandler, topic string, logger *slog.Logger) *Consumer {
	return &Consumer{subscriber: subscriber, handler: handler, topic: topic, logger: logger}
}

// Start subscribes and consumes in the background until ctx is cancelled or
// the subscriber is closed. The returned channel closes when consumption stops.
func (c *Consumer) Start(ctx context.Context) (<-chan struct{}, error) {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", c.topic, err)
	}
	c.logger.InfoContext(ctx, "badge consumer started", "topic", c.topic)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			c.process(msg)
		}
		c.logger.Info("badge consumer stopped", "topic", c.topic)
	}()
	return done, nil
}

func (c *Consumer) process(msg *message.Message) {
	defer msg.Ack()

	var job app.BadgeJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		c.logger.Error("dropping malformed badge job", "message_id", msg.UUID, "error", err)
		return
	}
	if err := app.RunJob(msg.Context(), c.handler, job); err != nil {
		c.logger.Error("badge evaluation failed",
			"message_id", msg.UUID, "kind", job.Kind, "participant_id", job.ParticipantID, "error", err)
	}
}
