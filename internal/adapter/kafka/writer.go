package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"

	"github.com/couchcryptid/recruit-map-etl/internal/config"
	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes geocoded candidate records to a Kafka topic.
// It implements pipeline.RecordSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per record in a single WriteMessages call.
// Messages share the batch ID as key so a batch lands on one partition in
// dataset order.
func (w *Writer) Publish(ctx context.Context, batchID string, ds domain.Dataset) error {
	if ds.Len() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, ds.Len())
	for i := range ds.Records {
		msg, err := serializeToMessage(batchID, ds.Records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d records to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("records published", "batch_id", batchID, "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// recordPayload is the wire form of a geocoded record.
type recordPayload struct {
	Fields    map[string]string `json:"fields"`
	CleanCity *string           `json:"clean_city"`
	Lat       *float64          `json:"lat"`
	Lon       *float64          `json:"lon"`
	GeoSource string            `json:"geo_source"`
}

// serializeToMessage marshals a CanonicalRecord into a Kafka message.
func serializeToMessage(batchID string, rec domain.CanonicalRecord) (kafkago.Message, error) {
	payload := recordPayload{
		Fields:    maps.Clone(rec.Fields),
		GeoSource: rec.GeoSource,
	}
	if rec.HasCleanCity {
		clean := rec.CleanCity
		payload.CleanCity = &clean
	}
	if rec.Geo != nil {
		lat, lon := rec.Geo.Lat, rec.Geo.Lon
		payload.Lat = &lat
		payload.Lon = &lon
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize candidate record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(batchID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "batch_id", Value: []byte(batchID)},
			{Key: "source", Value: []byte(rec.Source())},
		},
	}, nil
}
