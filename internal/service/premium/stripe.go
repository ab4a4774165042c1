package premium

import (
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// StripeGateway charges card tokens through Stripe.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(token string, amount int64, description string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(string(stripe.CurrencyINR)),
		Description: stripe.String(description),
	}
	if err := params.SetSource(token); err != nil {
		return "", err
	}
	ch, err := charge.New(params)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}
