package stripegw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"caribbean_kitchen/internal/adapters/observability"
	"caribbean_kitchen/internal/domain"
)

// Gateway is the Stripe-backed PaymentGateway.
type Gateway struct {
	sc *client.API
}

func New(apiKey string) (*Gateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Stripe API key is required")
	}
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &Gateway{sc: sc}, nil
}

// NewWithBackends points the client at custom backends; tests use it with a
// stub server.
func NewWithBackends(apiKey string, backends *stripe.Backends) *Gateway {
	sc := &client.API{}
	sc.Init(apiKey, backends)
	return &Gateway{sc: sc}
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, p domain.CheckoutParams) (string, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(p.Currency)),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	sess, err := g.sc.CheckoutSessions.New(params)
	observability.ObserveExternal("stripe", "checkout_session_new", statusOf(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (g *Gateway) GetSessionDetails(ctx context.Context, sessionID string) (domain.SessionDetails, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	start := time.Now()
	sess, err := g.sc.CheckoutSessions.Get(sessionID, params)
	observability.ObserveExternal("stripe", "checkout_session_get", statusOf(err), time.Since(start))
	if err != nil {
		return domain.SessionDetails{}, fmt.Errorf("stripe: retrieve session %s: %w", sessionID, err)
	}

	amount := sess.AmountTotal
	return domain.SessionDetails{
		Metadata:    sess.Metadata,
		AmountTotal: &amount,
	}, nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode
	}
	return 0
}
