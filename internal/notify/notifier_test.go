package notify

import (
	"context"
	"errors"
	"testing"

	"car-rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent    []Message
	failFor map[string]error
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if err := r.failFor[msg.To]; err != nil {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func booking() models.Booking {
	return models.Booking{
		BookingID:      "BK42",
		CarName:        "Honda CR-V",
		FirstName:      "Grace",
		LastName:       "Hopper",
		Email:          "grace@example.com",
		PickupDate:     "2024-06-01",
		ReturnDate:     "2024-06-04",
		PickupLocation: "Downtown",
		AdditionalInfo: "<b>child seat</b>",
		PricePerDay:    70,
		Days:           3,
		Subtotal:       21000,
		Tax:            1680,
		Total:          22680,
		PaymentStatus:  models.PaymentStatusPending,
	}
}

func TestEmailNotifierSendsCustomerAndAdmin(t *testing.T) {
	sender := &recordingSender{}
	n := NewEmailNotifier(sender, "desk@example.com")

	require.NoError(t, n.NotifyBookingCreated(context.Background(), booking()))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "grace@example.com", sender.sent[0].To)
	assert.Equal(t, "desk@example.com", sender.sent[1].To)
	assert.Contains(t, sender.sent[0].Subject, "BK42")
	assert.Contains(t, sender.sent[0].HTML, "$226.80")
	assert.Contains(t, sender.sent[0].HTML, "&lt;b&gt;child seat&lt;/b&gt;")
}

func TestEmailNotifierCustomerFailure(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{"grace@example.com": errors.New("relay refused")}}
	n := NewEmailNotifier(sender, "")

	err := n.NotifyBookingCreated(context.Background(), booking())
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestEmailNotifierAdminFailureIsNotFatal(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{"desk@example.com": errors.New("mailbox full")}}
	n := NewEmailNotifier(sender, "desk@example.com")

	require.NoError(t, n.NotifyBookingCreated(context.Background(), booking()))
	assert.Len(t, sender.sent, 1)
}

func TestSMTPMailerHonoursCancelledContext(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "bookings@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{To: "grace@example.com", Subject: "hi", Text: "hi"})
	assert.ErrorIs(t, err, context.Canceled)
}
