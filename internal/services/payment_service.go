// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/cvtravel/visa-backend/internal/config"
)

// PaymentRequest describes one hosted payment session to create.
type PaymentRequest struct {
	Amount      float64
	Currency    string
	Reference   string
	Description string
	ReturnURL   string
	CancelURL   string
}

// PaymentGateway creates a hosted payment session and returns the redirect
// URL the applicant is sent to. The gateway marks the payment outcome
// out-of-band through the payment callback endpoint.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req PaymentRequest) (string, error)
}

type StripeGateway struct {
	config *config.Config
}

func NewStripeGateway(config *config.Config) *StripeGateway {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &StripeGateway{config: config}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req PaymentRequest) (string, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.config.Payment.Currency
	}

	// Convert amount to cents for Stripe
	amountInCents := int64(math.Round(req.Amount * 100))

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.Reference),
		SuccessURL:        stripe.String(req.ReturnURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amountInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("reference_number", req.Reference)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return sess.URL, nil
}
