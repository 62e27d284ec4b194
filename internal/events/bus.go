package events

import (
	"context"
	"encoding/json"
	"time"

	"tiketbus/internal/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	TopicBookingCreated       = "booking.created"
	TopicBookingStatusChanged = "booking.status_changed"
	TopicBookingUpdated       = "booking.updated"
	TopicBookingDeleted       = "booking.deleted"
	TopicScheduleChanged      = "schedule.changed"
)

// AllTopics is what the audit consumer listens on.
var AllTopics = []string{
	TopicBookingCreated,
	TopicBookingStatusChanged,
	TopicBookingUpdated,
	TopicBookingDeleted,
	TopicScheduleChanged,
}

// BookingEvent is the payload of every booking topic.
type BookingEvent struct {
	BookingID  string    `json:"bookingId"`
	Code       string    `json:"code,omitempty"`
	ScheduleID string    `json:"scheduleId"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Seats      []string  `json:"seats,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ScheduleEvent is the payload of schedule.changed.
type ScheduleEvent struct {
	ScheduleID string    `json:"scheduleId"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Bus is an in-process watermill pub/sub. Publishing never fails the caller.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
		logger: logger,
	}
}

// Publish marshals payload to JSON and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) {
	if b == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("marshal event payload", err, watermill.LogFields{"topic": topic})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	if rid := utils.RequestIDFrom(ctx); rid != "" {
		msg.Metadata.Set("request_id", rid)
	}
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.logger.Error("publish event", err, watermill.LogFields{"topic": topic})
	}
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.pubsub.Close()
}

// RunAuditLog logs every event on topics until ctx is done.
func RunAuditLog(ctx context.Context, b *Bus, topics ...string) error {
	for _, topic := range topics {
		msgs, err := b.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func(topic string, msgs <-chan *message.Message) {
			for msg := range msgs {
				utils.LogEvent(msg.Metadata.Get("request_id"), "events", topic, string(msg.Payload))
				msg.Ack()
			}
		}(topic, msgs)
	}
	return nil
}
