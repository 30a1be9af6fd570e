package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"caribbean_kitchen/internal/domain"
)

// ErrInvalidPayment marks a checkout request rejected before it reaches the
// gateway.
var ErrInvalidPayment = errors.New("invalid payment data")

// PaymentRequest is the client body for creating a checkout session.
type PaymentRequest struct {
	ProductName   string            `json:"productName"`
	AmountInPence int64             `json:"amountInPence"`
	Quantity      int64             `json:"quantity"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customerEmail"`
	SuccessURL    string            `json:"successUrl"`
	CancelURL     string            `json:"cancelUrl"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentService validates payment requests and creates checkout sessions
// through the gateway, filling in configured defaults for currency and
// redirect URLs.
type PaymentService struct {
	gw         domain.PaymentGateway
	currency   string
	successURL string
	cancelURL  string
}

func NewPaymentService(gw domain.PaymentGateway, currency, successURL, cancelURL string) *PaymentService {
	return &PaymentService{gw: gw, currency: currency, successURL: successURL, cancelURL: cancelURL}
}

// CreateCheckoutSession returns the hosted checkout URL for the request.
// Validation failures never reach the gateway.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, req PaymentRequest) (string, error) {
	if req.ProductName == "" || req.AmountInPence <= 0 || req.Quantity < 1 {
		return "", ErrInvalidPayment
	}

	p := domain.CheckoutParams{
		Items: []domain.LineItem{{
			Name:       req.ProductName,
			UnitAmount: req.AmountInPence,
			Quantity:   req.Quantity,
		}},
		Currency:   orElse(req.Currency, s.currency),
		SuccessURL: orElse(req.SuccessURL, s.successURL),
		CancelURL:  orElse(req.CancelURL, s.cancelURL),
		Metadata:   req.Metadata,
	}

	log.Info().
		Str("product", req.ProductName).
		Int64("amount", req.AmountInPence).
		Int64("quantity", req.Quantity).
		Msg("creating checkout session")

	url, err := s.gw.CreateCheckoutSession(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("product", req.ProductName).Msg("checkout session creation failed")
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if url == "" {
		return "", errors.New("gateway returned an empty checkout url")
	}
	return url, nil
}

func orElse(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
