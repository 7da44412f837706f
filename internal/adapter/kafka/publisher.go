package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/recruiting-territories-service/internal/config"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

// Publisher writes aggregated territory connections to a Kafka topic.
// It implements pipeline.ConnectionPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured connections topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaConnectionsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// ConnectionMessage is the JSON value of each published message.
type ConnectionMessage struct {
	RunID       string        `json:"run_id"`
	PublishedAt time.Time     `json:"published_at"`
	Filter      domain.Filter `json:"filter"`
	domain.ConnectionCount
}

// PublishConnections sends one message per aggregated connection in a single
// WriteMessages call. Messages are keyed by "school|city" so updates for the
// same line land on the same partition.
func (p *Publisher) PublishConnections(ctx context.Context, runID string, f domain.Filter, conns []domain.ConnectionCount) error {
	if len(conns) == 0 {
		return nil
	}
	now := time.Now().UTC()
	msgs := make([]kafkago.Message, len(conns))
	for i := range conns {
		msg, err := serializeToMessage(ConnectionMessage{
			RunID:           runID,
			PublishedAt:     now,
			Filter:          f,
			ConnectionCount: conns[i],
		})
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d connections: %w", len(msgs), err)
	}
	p.logger.Debug("connections published", "run_id", runID, "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ConnectionMessage into a Kafka message.
func serializeToMessage(m ConnectionMessage) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize connection: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(m.School + "|" + m.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(m.RunID)},
			{Key: "school", Value: []byte(m.School)},
			{Key: "published_at", Value: []byte(m.PublishedAt.Format(time.RFC3339))},
		},
	}, nil
}
