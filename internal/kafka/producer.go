package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/models"
)

// Producer publishes flushed listing records, or crawl failures when
// pointed at the dead-letter topic.
type Producer struct {
	writer crawler.MessageWriter
}

// NewProducer creates a Kafka producer for the given broker and topic.
func NewProducer(broker, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: false,
		},
	}
}

// NewProducerWithWriter builds a producer using a custom writer (tests).
func NewProducerWithWriter(writer crawler.MessageWriter) *Producer {
	return &Producer{writer: writer}
}

// Close shuts down the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Write publishes one message per record, keyed by listing id so updates
// of the same listing land on the same partition.
func (p *Producer) Write(ctx context.Context, records []models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(record.ID, 10)),
			Value: payload,
			Time:  now,
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// PublishFailure writes a dropped task to the DLQ, keyed by run.
func (p *Producer) PublishFailure(ctx context.Context, failure models.CrawlFailure) error {
	payload, err := json.Marshal(failure)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(failure.RunID),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	return p.writer.WriteMessages(ctx, msg)
}
