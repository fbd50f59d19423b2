package booking

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/diagnosis/luxury-stays/internal/platform/provider"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"restriction text", &provider.APIError{StatusCode: 400, Body: `{"message":"Booking restrictions violated: min nights 3"}`}, CategoryAvailability},
		{"not available text", &provider.APIError{StatusCode: 400, Body: "Listing is not available for the requested dates"}, CategoryAvailability},
		{"conflict status", &provider.APIError{StatusCode: http.StatusConflict, Body: "{}"}, CategoryAvailability},
		{"rate limited status", &provider.APIError{StatusCode: http.StatusTooManyRequests, Body: ""}, CategoryRateLimited},
		{"not found", &provider.APIError{StatusCode: http.StatusNotFound, Body: "listing not found"}, CategoryNotFound},
		{"malformed", &provider.APIError{StatusCode: http.StatusBadRequest, Body: "guestsCount must be a number"}, CategoryMalformed},
		{"unprocessable", &provider.APIError{StatusCode: http.StatusUnprocessableEntity, Body: ""}, CategoryMalformed},
		{"server error", &provider.APIError{StatusCode: http.StatusServiceUnavailable, Body: "Service Unavailable"}, CategoryGeneric},
		{"wrapped", fmt.Errorf("create quote: %w", &provider.APIError{StatusCode: 409}), CategoryAvailability},
		{"network", errors.New("dial tcp: connection refused"), CategoryGeneric},
		{"nil", nil, CategoryGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryMessage_Unknown(t *testing.T) {
	if got := CategoryMessage("nope"); got != CategoryMessage(CategoryGeneric) {
		t.Errorf("unknown category message = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(ErrQuoteExpired); got != QuoteExpiredMessage {
		t.Errorf("expired: %q", got)
	}
	if got := UserMessage(fmt.Errorf("wrap: %w", invalid("x", "bad x"))); got != "bad x" {
		t.Errorf("validation: %q", got)
	}
	if got := UserMessage(&PaymentError{Message: "Your card was declined.", Err: errors.New("card_declined")}); got != "Your card was declined." {
		t.Errorf("payment: %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("nil: %q", got)
	}
}
