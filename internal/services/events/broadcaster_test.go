package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/amix-engine/pkg/pet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) (*miniredis.Miniredis, *Broadcaster) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr(), testLogger())
	require.NoError(t, err)

	b := NewBroadcaster(client, uuid.New(), testLogger())
	t.Cleanup(func() { _ = b.Close() })
	return mr, b
}

func subscribe(t *testing.T, b *Broadcaster) *redis.PubSub {
	t.Helper()
	ctx := context.Background()

	sub := b.redisClient.Subscribe(ctx, b.Channel())
	t.Cleanup(func() { _ = sub.Close() })

	// Wait for the subscription confirmation before publishing.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub
}

func receive(t *testing.T, sub *redis.PubSub) Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	return env
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url", testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse redis URL")
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Connect(ctx, "redis://"+addr, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestBroadcaster_Channel(t *testing.T) {
	id := uuid.MustParse("3f2c7a8e-5b1d-4c6e-9a0f-1e2d3c4b5a69")
	b := NewBroadcaster(nil, id, testLogger())
	assert.Equal(t, "pet-events:3f2c7a8e-5b1d-4c6e-9a0f-1e2d3c4b5a69", b.Channel())
}

func TestBroadcaster_Publish(t *testing.T) {
	_, b := setup(t)
	sub := subscribe(t, b)

	event := pet.Event{
		ID:   uuid.New(),
		Type: pet.EventTypeSpeech,
		At:   2 * time.Second,
		Data: map[string]interface{}{"text": "Hello, traveller."},
	}
	require.NoError(t, b.Publish(context.Background(), event))

	env := receive(t, sub)
	assert.Equal(t, b.sessionID.String(), env.SessionID)
	assert.Equal(t, event.ID, env.ID)
	assert.Equal(t, pet.EventTypeSpeech, env.Type)
	assert.Equal(t, 2*time.Second, env.At)
	assert.Equal(t, "Hello, traveller.", env.Data["text"])
}

func TestBroadcaster_PublishAllKeepsOrder(t *testing.T) {
	_, b := setup(t)
	sub := subscribe(t, b)

	p, err := pet.New(pet.Options{Logger: testLogger()})
	require.NoError(t, err)
	p.Talk(context.Background())
	p.Dance()
	events := p.DrainEvents()
	require.NotEmpty(t, events)

	require.NoError(t, b.PublishAll(context.Background(), events))
	for _, want := range events {
		env := receive(t, sub)
		assert.Equal(t, want.ID, env.ID)
		assert.Equal(t, want.Type, env.Type)
	}
}

func TestBroadcaster_PublishFailsWhenServerGone(t *testing.T) {
	mr, b := setup(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := b.Publish(ctx, pet.Event{ID: uuid.New(), Type: pet.EventTypeSound})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}
