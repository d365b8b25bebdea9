package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeVerifier reads PaymentIntent status from Stripe
type StripeVerifier struct {
	api *client.API
}

// NewStripeVerifier creates a verifier using the given secret key
func NewStripeVerifier(secretKey string) *StripeVerifier {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeVerifier{api: api}
}

// PaymentStatus fetches the PaymentIntent identified by reference
func (v *StripeVerifier) PaymentStatus(ctx context.Context, reference string) (*PaymentInfo, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := v.api.PaymentIntents.Get(reference, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", reference, err)
	}

	return &PaymentInfo{
		Status:   string(pi.Status),
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
	}, nil
}
