//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/temperature-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-dashboard/internal/config"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
	"github.com/couchcryptid/temperature-dashboard/internal/observability"
	"github.com/couchcryptid/temperature-dashboard/internal/pipeline"
)

const testCSV = "ObjectId,Country,ISO2,ISO3,Indicator,Unit,Source,CTS_Code,CTS_Name,CTS_Full_Descriptor,F1961,F1962\n" +
	"1,Testland,TL,TST,Temperature change,Degree Celsius,FAO,ECCS,Surface Temperature Change,Climate,-0.126,\n" +
	"2,Otherland,OL,OTH,Temperature change,Degree Celsius,FAO,ECCS,Surface Temperature Change,Climate,0.5,0.75\n"

// TestPipelinePublishesTidyRecords loads a CSV from disk, runs the startup
// pipeline with the Kafka writer as loader, and reads every record back.
func TestPipelinePublishesTidyRecords(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	topic := fmt.Sprintf("tidy-%d", time.Now().UnixNano())
	createTopic(t, broker, topic)

	path := filepath.Join(t.TempDir(), "temperature.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: topic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	reader := csvfile.NewReader(path, discardLogger())
	p := pipeline.New(reader, reader, pipeline.NewTransformer(discardLogger()), writer,
		discardLogger(), observability.NewMetricsForTesting())

	snap, err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tidy.Records, 4)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := make(map[string]domain.TidyRecord)
	for len(got) < len(snap.Tidy.Records) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from topic")

		var rec domain.TidyRecord
		require.NoError(t, json.Unmarshal(msg.Value, &rec))
		got[string(msg.Key)] = rec

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, rec.Country, headers["country"])
		_, err = time.Parse(time.RFC3339, headers["published_at"])
		assert.NoError(t, err, "published_at should be valid RFC3339")
	}

	require.Contains(t, got, "Testland|1961")
	require.NotNil(t, got["Testland|1961"].TemperatureChange)
	assert.InDelta(t, -0.126, *got["Testland|1961"].TemperatureChange, 1e-9)
	assert.Nil(t, got["Testland|1962"].TemperatureChange)
	require.NotNil(t, got["Otherland|1962"].TemperatureChange)
	assert.InDelta(t, 0.75, *got["Otherland|1962"].TemperatureChange, 1e-9)
}
