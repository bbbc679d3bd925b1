package events

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// KafkaConfig holds broker settings for the Kafka transport.
type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewGoChannel returns an in-process pub/sub usable as both publisher and subscriber.
func NewGoChannel(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NewSlogLogger(logger))
}

func NewKafkaPublisher(cfg KafkaConfig) (message.Publisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.Brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}
	return publisher, nil
}

func NewKafkaSubscriber(cfg KafkaConfig) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               cfg.Brokers,
		Unmarshaler:           kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
		ConsumerGroup:         cfg.ConsumerGroup,
	}, watermill.NewSlogLogger(cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return subscriber, nil
}
