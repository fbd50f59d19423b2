package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentmethod"
)

// DeclineError carries Stripe's user-facing message for a card that could
// not be tokenized (declined, invalid number, expired, ...).
type DeclineError struct {
	Code    string
	Message string
}

func (e *DeclineError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

var ErrNotConfigured = errors.New("payments: stripe secret key not configured")

type paymentMethodAPI interface {
	New(params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
}

// StripeTokenizer turns card-widget state into a PaymentMethod id. It keeps
// no session or token cache; every call stands alone.
type StripeTokenizer struct {
	api paymentMethodAPI
}

func NewStripeTokenizer(secretKey string) *StripeTokenizer {
	if strings.TrimSpace(secretKey) == "" {
		return &StripeTokenizer{}
	}
	return &StripeTokenizer{
		api: &paymentmethod.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (t *StripeTokenizer) CreatePaymentMethod(ctx context.Context, card domain.CardWidget, billing domain.BillingDetails) (string, error) {
	if t.api == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(card.Token) == "" {
		return "", &DeclineError{Message: "Please enter valid card details"}
	}

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Token: stripe.String(card.Token),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name:  stripe.String(billing.Name),
			Email: stripe.String(billing.Email),
			Phone: stripe.String(billing.Phone),
		},
	}
	params.Context = ctx

	pm, err := t.api.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && isUserFacing(stripeErr) {
			logger.WarnContext(ctx, "Card tokenization declined",
				"stripe_code", string(stripeErr.Code),
				"decline_code", string(stripeErr.DeclineCode),
			)
			return "", &DeclineError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
		}
		logger.ErrorContext(ctx, "Stripe payment method request failed", "error", err)
		return "", fmt.Errorf("failed to create payment method: %w", err)
	}
	if pm == nil || pm.ID == "" {
		return "", errors.New("failed to create payment method")
	}
	return pm.ID, nil
}

// cardParams are the request fields a guest typed in themselves.
var cardParams = map[string]bool{
	"card[number]":    true,
	"card[exp_month]": true,
	"card[exp_year]":  true,
	"card[cvc]":       true,
}

// isUserFacing reports whether Stripe's message is about the guest's card.
// Key, token and account problems stay server-side.
func isUserFacing(err *stripe.Error) bool {
	if err.Msg == "" {
		return false
	}
	switch err.Type {
	case stripe.ErrorTypeCard:
		return true
	case stripe.ErrorTypeInvalidRequest:
		return cardParams[err.Param]
	}
	return false
}
