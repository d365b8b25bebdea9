package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"car-rental/internal/models"
	"car-rental/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const channelKafka = "kafka"

// EventPublisher publishes booking domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishBookingCreated publishes a BookingCreated event keyed by car
func (ep *EventPublisher) PublishBookingCreated(ctx context.Context, booking models.Booking) error {
	event := &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now().UTC(),
		},
		Booking: booking,
	}
	key := fmt.Sprintf("car-%d", booking.CarID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// NotifyBookingCreated hands the booking to the notification worker via Kafka
func (ep *EventPublisher) NotifyBookingCreated(ctx context.Context, booking models.Booking) error {
	if err := ep.PublishBookingCreated(ctx, booking); err != nil {
		util.NotificationsFailedTotal.WithLabelValues(channelKafka).Inc()
		return err
	}
	util.NotificationsSentTotal.WithLabelValues(channelKafka).Inc()
	return nil
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onBookingCreated func(context.Context, *models.BookingCreatedEvent) error
	logger           *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnBookingCreated registers a handler for BookingCreated events
func (eh *EventHandler) OnBookingCreated(handler func(context.Context, *models.BookingCreatedEvent) error) {
	eh.onBookingCreated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeBookingCreated:
		if eh.onBookingCreated != nil {
			var event models.BookingCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal BookingCreated event: %w", err)
			}
			return eh.onBookingCreated(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
