package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventSaleCreated    = "sale.created"
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventStockAdjusted  = "stock.adjusted"
)

// Publisher emits domain events after a successful write.
type Publisher interface {
	Publish(ctx context.Context, event string, id int, payload interface{}) error
	Close() error
}

// EventKey builds the message key "<event>.<id>", e.g. "sale.created.42".
func EventKey(event string, id int) string {
	return fmt.Sprintf("%s.%d", event, id)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultTimeout bounds one Publish call when none is configured.
const DefaultTimeout = 500 * time.Millisecond

type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaPublisher wraps writer. Every Publish gives up after timeout, so a
// slow or unreachable broker cannot hold a response that is already committed.
func NewKafkaPublisher(writer *kafka.Writer, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &KafkaPublisher{writer: writer, timeout: timeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event string, id int, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(EventKey(event, id)),
		Value: value,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Key, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, int, interface{}) error { return nil }

func (Noop) Close() error { return nil }
