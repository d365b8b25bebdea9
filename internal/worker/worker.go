package worker

import (
	"context"

	"car-rental/internal/broker"
	"car-rental/internal/models"
	"car-rental/internal/service"
	"car-rental/internal/util"

	"go.uber.org/zap"
)

// MessageSource is the consuming side of a topic; *broker.Consumer satisfies it
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// BookingArchiver stores a copy of a booking outside the inventory document
type BookingArchiver interface {
	RecordBooking(ctx context.Context, booking models.Booking) error
}

// NotificationWorker sends booking confirmations for events published by
// the booking flow when notifications run in kafka mode.
type NotificationWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	notifier     service.Notifier
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer MessageSource, notifier service.Notifier) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		notifier:     notifier,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnBookingCreated(w.handleBookingCreated)
	return w
}

func (w *NotificationWorker) handleBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	w.logger.Info("Sending booking confirmation",
		zap.String("booking_id", event.Booking.BookingID),
		zap.String("event_id", event.EventID))

	if err := w.notifier.NotifyBookingCreated(ctx, event.Booking); err != nil {
		w.logger.Error("Failed to send booking confirmation",
			zap.String("booking_id", event.Booking.BookingID),
			zap.Error(err))
		return err
	}
	return nil
}

// Start consumes until ctx is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

// ArchiveWorker mirrors created bookings into the reporting archive
type ArchiveWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	archive      BookingArchiver
	logger       *zap.Logger
}

// NewArchiveWorker creates a new archive worker
func NewArchiveWorker(consumer MessageSource, archive BookingArchiver) *ArchiveWorker {
	w := &ArchiveWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		archive:      archive,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnBookingCreated(w.handleBookingCreated)
	return w
}

func (w *ArchiveWorker) handleBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	if err := w.archive.RecordBooking(ctx, event.Booking); err != nil {
		w.logger.Error("Failed to archive booking",
			zap.String("booking_id", event.Booking.BookingID),
			zap.Error(err))
		return err
	}
	w.logger.Debug("Booking archived", zap.String("booking_id", event.Booking.BookingID))
	return nil
}

// Start consumes until ctx is cancelled
func (w *ArchiveWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting archive worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ArchiveWorker) Stop() error {
	w.logger.Info("Stopping archive worker")
	return w.consumer.Close()
}
