package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/amix-engine/pkg/pet"
)

// ChannelPrefix is prepended to the session ID to form the Pub/Sub channel.
const ChannelPrefix = "pet-events:"

// Envelope is the message published for every pet event.
type Envelope struct {
	SessionID string `json:"session_id"`
	pet.Event
}

// Broadcaster publishes pet events to Redis Pub/Sub so other displays can
// follow a running pet. Nothing is stored.
type Broadcaster struct {
	redisClient *redis.Client
	sessionID   uuid.UUID
	logger      *slog.Logger
}

// Connect parses redisURL and checks the connection.
func Connect(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for event feed", "addr", opt.Addr)
	return rdb, nil
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, sessionID uuid.UUID, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		sessionID:   sessionID,
		logger:      logger,
	}
}

// Channel returns the session's Pub/Sub channel.
func (b *Broadcaster) Channel() string {
	return ChannelPrefix + b.sessionID.String()
}

// Publish sends one event.
func (b *Broadcaster) Publish(ctx context.Context, event pet.Event) error {
	channel := b.Channel()

	data, err := json.Marshal(Envelope{SessionID: b.sessionID.String(), Event: event})
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"event_id", event.ID,
	)
	return nil
}

// PublishAll sends events in order and stops at the first failure.
func (b *Broadcaster) PublishAll(ctx context.Context, events []pet.Event) error {
	for _, event := range events {
		if err := b.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the Redis connection
func (b *Broadcaster) Close() error {
	return b.redisClient.Close()
}
