package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type awardedPayload struct {
	UserID string `json:"user_id"`
	Amount int    `json:"amount"`
}

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := NewInMemory(logger)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, "points.awarded.v1")
	require.NoError(t, err)

	err = bus.Publish(ctx, "points.awarded.v1", awardedPayload{UserID: "u-1", Amount: 250}, map[string]string{"user_id": "u-1"})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		got, err := Decode[awardedPayload](msg)
		require.NoError(t, err)
		assert.Equal(t, awardedPayload{UserID: "u-1", Amount: 250}, got)
		assert.Equal(t, "u-1", msg.Metadata.Get("user_id"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryBus_TopicsAreIsolated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := NewInMemory(logger)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, "notification.created.v1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, "points.awarded.v1", awardedPayload{UserID: "u-2"}, nil))

	select {
	case msg := <-messages:
		t.Fatalf("unexpected message %s on isolated topic", msg.UUID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublish_MarshalError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := NewInMemory(logger)
	defer bus.Close()

	err := bus.Publish(context.Background(), "bad.v1", make(chan int), nil)
	assert.Error(t, err)
}

func TestDecode_InvalidPayload(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	_, err := Decode[awardedPayload](msg)
	assert.Error(t, err)
}

func TestNew_DisabledNATSUsesMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus, err := New(Options{NATSEnabled: false}, logger)
	require.NoError(t, err)
	assert.True(t, bus.shared)
	require.NoError(t, bus.Close())
}
