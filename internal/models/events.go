package models

import "time"

// Event types
const (
	EventTypeBookingCreated = "BOOKING_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent published after a booking is persisted
type BookingCreatedEvent struct {
	BaseEvent
	Booking Booking `json:"booking"`
}
