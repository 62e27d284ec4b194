package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tiketbus/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversJSONWithRequestID(t *testing.T) {
	bus := NewBus(NewZapLoggerAdapter(zap.NewNop()))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicBookingCreated)
	require.NoError(t, err)

	bus.Publish(utils.WithRequestID(ctx, "req-1"), TopicBookingCreated, BookingEvent{
		BookingID:  "6750a1b2c3d4e5f60123aaaa",
		ScheduleID: "6750a1b2c3d4e5f60123bbbb",
		Seats:      []string{"A1", "A2"},
		To:         "pending",
	})

	select {
	case msg := <-msgs:
		var got BookingEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "6750a1b2c3d4e5f60123aaaa", got.BookingID)
		assert.Equal(t, []string{"A1", "A2"}, got.Seats)
		assert.Equal(t, "req-1", msg.Metadata.Get("request_id"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()

	done := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), TopicBookingDeleted, BookingEvent{BookingID: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked")
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	bus.Publish(context.Background(), TopicBookingCreated, BookingEvent{})
	assert.NoError(t, bus.Close())
}
