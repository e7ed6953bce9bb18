//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/kafka"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/adapter/memstore"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/config"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/observability"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

const testReportsTopic = "test-crime-reports"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("crimemap-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type publishedEvent struct {
	Event   kafka.ReportEvent
	Key     string
	Headers map[string]string
}

func readEvent(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedEvent {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from reports topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event kafka.ReportEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal report event")
	return publishedEvent{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestCreatePublishesReportEvent drives Store.Create with the Kafka writer as
// publisher and checks the event on the topic.
func TestCreatePublishesReportEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportsTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaReportsTopic: testReportsTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	s := store.New(memstore.New(), "", writer, discardLogger(), metrics)

	drafts := []domain.ReportDraft{
		{
			Crime:         "Theft",
			Location:      domain.ResolvedLocation{Address: "Chandni Chowk, Delhi", Coordinates: domain.LatLng{Lat: 28.6506, Lng: 77.2303}}.AsLocation(),
			Description:   "Wallet stolen",
			VictimName:    "Arjun",
			VictimContact: "arjun@example.com",
		},
		{
			Crime:         "Harassment",
			Location:      domain.ResolvedLocation{Address: "Rohini, Delhi", Coordinates: domain.LatLng{Lat: 28.7158, Lng: 77.1135}}.AsLocation(),
			Description:   "Followed home",
			VictimName:    "Isha",
			VictimContact: "9811111111",
		},
	}
	created := make([]domain.Report, 0, len(drafts))
	for _, d := range drafts {
		r, err := s.Create(ctx, d)
		require.NoError(t, err)
		created = append(created, r)
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testReportsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for _, want := range created {
		got := readEvent(ctx, t, consumer)
		assert.Equal(t, want.ID, got.Key)
		assert.Equal(t, want.ID, got.Event.ID)
		assert.Equal(t, string(want.Crime), got.Event.Crime)
		assert.Equal(t, string(want.Crime), got.Headers["crime"])
		_, err := time.Parse(time.RFC3339, got.Headers["created_at"])
		assert.NoError(t, err, "created_at should be valid RFC3339")
		assert.Equal(t, want.Location.Address, got.Event.Address)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("success")))
}

// TestPublishUnreachableBrokerDoesNotFailCreate checks that a dead broker
// only costs the event, never the stored report.
func TestPublishUnreachableBrokerDoesNotFailCreate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.Config{
		KafkaBrokers:      []string{"127.0.0.1:1"},
		KafkaReportsTopic: testReportsTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	kv := memstore.New()
	s := store.New(kv, "", writer, discardLogger(), observability.NewMetricsForTesting())

	pubCtx, pubCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pubCancel()
	report, err := s.Create(pubCtx, domain.ReportDraft{
		Crime:         "Fraud",
		Location:      domain.ResolvedLocation{Address: "Saket", Coordinates: domain.LatLng{Lat: 28.5245, Lng: 77.2066}}.AsLocation(),
		Description:   "Card skimmed",
		VictimName:    "Dev",
		VictimContact: "dev@example.com",
	})
	require.NoError(t, err)

	reports, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}
