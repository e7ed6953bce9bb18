// Package kafka publishes report-created events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/config"
	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// ReportEvent is the message body for a newly created report. Victim
// details stay in the report store and are never put on the topic.
type ReportEvent struct {
	ID          string         `json:"id"`
	Crime       string         `json:"crime"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Coordinates *domain.LatLng `json:"coordinates,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Writer produces report events to a Kafka topic.
// It implements store.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured reports topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// One message per create; do not wait for a batch to fill.
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a report and writes it keyed by report ID, so every
// event for one report lands on the same partition.
func (w *Writer) Publish(ctx context.Context, report domain.Report) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report %s: %w", report.ID, err)
	}
	w.logger.Debug("report event published", "id", report.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func newReportEvent(r domain.Report) ReportEvent {
	return ReportEvent{
		ID:          r.ID,
		Crime:       string(r.Crime),
		Description: r.Description,
		Address:     r.Location.Address,
		Coordinates: r.Location.Coordinates,
		CreatedAt:   r.CreatedAt,
	}
}

// serializeToMessage marshals a Report into a Kafka message.
func serializeToMessage(r domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(newReportEvent(r))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "crime", Value: []byte(r.Crime)},
			{Key: "created_at", Value: []byte(r.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
