package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/zip-forecast/internal/config"
	"github.com/couchcryptid/zip-forecast/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces lookup events to a Kafka topic.
// It implements lookup.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured lookup topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one completed lookup and writes it keyed by postal
// code, so lookups for the same code land on the same partition.
func (w *Writer) Publish(ctx context.Context, forecast domain.Forecast) error {
	msg, err := serializeToMessage(forecast)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write lookup event: %w", err)
	}
	w.logger.Debug("lookup event published", "postal_code", forecast.PostalCode, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Forecast into a Kafka message.
func serializeToMessage(forecast domain.Forecast) (kafkago.Message, error) {
	data, err := json.Marshal(forecast)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(forecast.PostalCode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "postal_code", Value: []byte(forecast.PostalCode)},
			{Key: "fetched_at", Value: []byte(forecast.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
