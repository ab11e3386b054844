package config

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns a writer tuned for single events on the request
// path: batches flush almost immediately and a down broker fails fast.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // events of one entity land on one partition
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            2,
		WriteTimeout:           time.Second,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
}
