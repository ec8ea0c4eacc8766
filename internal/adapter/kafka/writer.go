package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-dashboard/internal/config"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

// chunkSize caps the number of messages per WriteMessages call.
const chunkSize = 500

// Writer publishes tidy temperature records to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Load serializes the records and writes them in chunks. Records are keyed by
// country and year so that a republish lands on the same partition.
func (w *Writer) Load(ctx context.Context, records []domain.TidyRecord) error {
	if len(records) == 0 {
		return nil
	}
	publishedAt := domain.Now().UTC()

	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, r := range records[start:end] {
			msg, err := serializeToMessage(r, publishedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write records %d-%d: %w", start, end, err)
		}
		w.logger.Debug("records published", "topic", w.writer.Topic, "count", len(msgs))
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// recordKey identifies a (country, year) pair.
func recordKey(r domain.TidyRecord) []byte {
	return []byte(r.Country + "|" + strconv.Itoa(r.Year))
}

// serializeToMessage marshals a TidyRecord into a Kafka message.
func serializeToMessage(r domain.TidyRecord, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize tidy record: %w", err)
	}
	return kafkago.Message{
		Key:   recordKey(r),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "country", Value: []byte(r.Country)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
