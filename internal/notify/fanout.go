package notify

import (
	"context"
	"errors"

	"car-rental/internal/models"
)

// BookingNotifier is anything told about a persisted booking
type BookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, booking models.Booking) error
}

// Fanout delivers to every notifier in order. One failure does not stop the
// rest; all errors are joined.
type Fanout []BookingNotifier

func (f Fanout) NotifyBookingCreated(ctx context.Context, booking models.Booking) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyBookingCreated(ctx, booking); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
