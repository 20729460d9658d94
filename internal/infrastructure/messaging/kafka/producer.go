package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// ProducerConfig holds the writer parameters.
type ProducerConfig struct {
	Brokers      []string      `yaml:"brokers" json:"brokers" mapstructure:"brokers"`
	BatchTimeout time.Duration `yaml:"batch_timeout" json:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" mapstructure:"write_timeout"`
}

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes envelopes, keyed by ticker so per-company ordering is
// preserved within a partition.
type Producer struct {
	writer writerInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer constructs a Producer.
func NewProducer(cfg ProducerConfig, logger logging.Logger) *Producer {
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: w, logger: logger.Named("kafka.producer")}
}

// newProducerWithWriter is the test seam.
func newProducerWithWriter(w writerInterface, logger logging.Logger) *Producer {
	return &Producer{writer: w, logger: logger}
}

// Publish sends one envelope to the topic.
func (p *Producer) Publish(ctx context.Context, topic string, env EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "envelope encode failed")
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(env.Ticker),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish failed",
			logging.String("topic", topic),
			logging.String("ticker", env.Ticker),
			logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeInternal, "publish to %s failed", topic)
	}
	return nil
}

// Close flushes and shuts down the writer.  Idempotent.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
