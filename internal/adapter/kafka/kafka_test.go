package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/recruiting-territories-service/internal/config"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 10, 0, 0, time.UTC)
	msg, err := serializeToMessage(ConnectionMessage{
		RunID:       "run-1",
		PublishedAt: now,
		Filter:      domain.DefaultFilter([]string{"Texas"}),
		ConnectionCount: domain.ConnectionCount{
			City:     "Austin, TX",
			Hometown: domain.Geo{Lat: 30.27, Lon: -97.74},
			School:   "Texas",
			Campus:   domain.Geo{Lat: 30.285, Lon: -97.733},
			Distance: domain.Miles(1.12),
			Count:    5,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("Texas|Austin, TX"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[0].Value)
	assert.Equal(t, "school", msg.Headers[1].Key)
	assert.Equal(t, []byte("Texas"), msg.Headers[1].Value)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, "Austin, TX", decoded["city"])
	assert.Equal(t, "Texas", decoded["school"])
	assert.Equal(t, 5.0, decoded["count"])
	assert.Equal(t, 1.12, decoded["distance"])
	assert.Contains(t, decoded, "filter")
}

func TestSerializeToMessage_NoDistance(t *testing.T) {
	msg, err := serializeToMessage(ConnectionMessage{
		RunID:           "run-2",
		ConnectionCount: domain.ConnectionCount{City: "Austin, TX", School: "Texas", Count: 1},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), `"distance"`)
}

func TestPublishConnections_EmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaConnectionsTopic: "unused"}
	p := NewPublisher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.PublishConnections(context.Background(), "run", domain.Filter{}, nil))
}
