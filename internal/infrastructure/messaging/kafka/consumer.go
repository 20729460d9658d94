package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

// ConsumerConfig holds the reader parameters.
type ConsumerConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers" mapstructure:"brokers"`
	GroupID string   `yaml:"group_id" json:"group_id" mapstructure:"group_id"`
	Topic   string   `yaml:"topic" json:"topic" mapstructure:"topic"`
}

// Handler processes one decoded envelope.  Returning an error leaves the
// offset uncommitted so the message is redelivered.
type Handler func(ctx context.Context, env EventEnvelope) error

// Consumer runs a consume loop over one topic.
type Consumer struct {
	reader *kafka.Reader
	logger logging.Logger
}

// NewConsumer constructs a Consumer.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10 << 20,
		CommitInterval: 0, // explicit commits
		MaxWait:        time.Second,
	})
	return &Consumer{reader: r, logger: logger.Named("kafka.consumer")}
}

// Run consumes until the context is cancelled.  Undecodable messages are
// logged and committed so a poison message cannot wedge the partition;
// handler failures are logged and left uncommitted.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("fetch failed", logging.Err(err))
			continue
		}

		var env EventEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("dropping undecodable message",
				logging.String("topic", msg.Topic),
				logging.Int("partition", msg.Partition),
				logging.Err(err))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit failed", logging.Err(err))
			}
			continue
		}

		if err := handle(ctx, env); err != nil {
			c.logger.Error("handler failed, message will be redelivered",
				logging.String("type", env.Type),
				logging.String("ticker", env.Ticker),
				logging.Err(err))
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit failed", logging.Err(err))
		}
	}
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
