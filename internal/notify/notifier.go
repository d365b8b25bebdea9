package notify

import (
	"context"
	"errors"
	"fmt"

	"car-rental/internal/invoice"
	"car-rental/internal/models"
	"car-rental/internal/util"

	"go.uber.org/zap"
)

const channelEmail = "email"

// EmailNotifier renders the invoice for a booking and mails it to the
// customer, plus an optional copy to the shop.
type EmailNotifier struct {
	sender     Sender
	adminEmail string
	logger     *zap.Logger
}

// NewEmailNotifier creates a notifier. adminEmail may be empty.
func NewEmailNotifier(sender Sender, adminEmail string) *EmailNotifier {
	return &EmailNotifier{
		sender:     sender,
		adminEmail: adminEmail,
		logger:     util.GetLogger(),
	}
}

// NotifyBookingCreated sends the confirmation. The customer copy decides the
// result; a failed admin copy is only logged.
func (n *EmailNotifier) NotifyBookingCreated(ctx context.Context, booking models.Booking) error {
	ctx, span := util.StartSpan(ctx, "EmailNotifier.NotifyBookingCreated")
	defer span.End()

	doc, err := invoice.Render(booking)
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues(channelEmail).Inc()
		return err
	}

	if booking.Email == "" {
		util.NotificationsFailedTotal.WithLabelValues(channelEmail).Inc()
		return errors.New("booking has no recipient email")
	}

	err = n.sender.Send(ctx, Message{
		To:      booking.Email,
		Subject: doc.Subject,
		HTML:    doc.HTML,
		Text:    doc.Text,
	})
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues(channelEmail).Inc()
		return fmt.Errorf("customer confirmation for %s: %w", booking.BookingID, err)
	}
	util.NotificationsSentTotal.WithLabelValues(channelEmail).Inc()

	if n.adminEmail != "" {
		err = n.sender.Send(ctx, Message{
			To:      n.adminEmail,
			Subject: "[New booking] " + doc.Subject,
			HTML:    doc.HTML,
			Text:    doc.Text,
		})
		if err != nil {
			util.NotificationsFailedTotal.WithLabelValues(channelEmail).Inc()
			n.logger.Warn("Failed to send admin booking copy",
				zap.String("booking_id", booking.BookingID),
				zap.Error(err))
		}
	}

	n.logger.Info("Booking confirmation sent",
		zap.String("booking_id", booking.BookingID),
		zap.String("to", booking.Email))
	return nil
}
