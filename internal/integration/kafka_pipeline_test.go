//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/adapter/fs"
	"github.com/couchcryptid/launch-site-etl/internal/adapter/kafka"
	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/couchcryptid/launch-site-etl/internal/observability"
	"github.com/couchcryptid/launch-site-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testDecisionTopic = "test-launch-decisions"

// staticGeocoder resolves cities from a fixed table.
type staticGeocoder map[string]float64

func (g staticGeocoder) ForwardGeocode(_ context.Context, city string) (domain.GeocodingResult, error) {
	lat, ok := g[city]
	if !ok {
		return domain.GeocodingResult{}, nil
	}
	return domain.GeocodingResult{Found: true, Lat: lat, PlaceName: city}, nil
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("launch-test-cluster"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func writeCity(t *testing.T, dir, name string, records []domain.DayRecord) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(domain.RenderDays(records)), 0o644))
}

func launchPeriod(wind int) []domain.DayRecord {
	days := make([]domain.DayRecord, domain.DaysInPeriod)
	for i := range days {
		days[i] = domain.DayRecord{
			Day: i + 1, Temperature: 20, Wind: wind, Humidity: 40, Precipitation: 1,
			Lightning: domain.LightningNo, Clouds: domain.CloudsStratus,
		}
	}
	days[9].Precipitation = 0
	return days
}

// TestPipelinePublishesDecision runs a full analysis over a directory and
// reads the published decision back from Kafka.
func TestPipelinePublishesDecision(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testDecisionTopic)

	dir := t.TempDir()
	writeCity(t, dir, "Sofia", launchPeriod(5))
	writeCity(t, dir, "Kourou", launchPeriod(7))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := kafka.NewPublisher([]string{broker}, testDecisionTopic, logger)
	t.Cleanup(func() { _ = publisher.Close() })

	src := fs.NewDirectory(dir)
	analyzer := pipeline.NewAnalyzer(domain.DefaultPolicy(), staticGeocoder{"Sofia": 42.69, "Kourou": 5.16}, logger)
	p := pipeline.New(src, analyzer, src, logger, observability.NewMetricsForTesting(),
		pipeline.Options{MaxParallel: 2}, publisher)

	res, err := p.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.Found)
	require.NoError(t, res.NotifyErr)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testDecisionTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	defer reader.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err, "read decision")

	assert.Equal(t, res.RunID, string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "Kourou", headers["location"])

	var got domain.Decision
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "Kourou, 10 July", got.Report)
	assert.Equal(t, 2, got.Cities)
	assert.Equal(t, 2, got.Candidates)
	assert.Equal(t, 5.16, got.Winner.Latitude)

	report, err := os.ReadFile(src.ReportPath())
	require.NoError(t, err)
	assert.Equal(t, got.Report, string(report))
}
