package booking

import (
	"errors"
	"fmt"
)

// User-facing messages for the expected, non-error outcomes.
const (
	QuoteExpiredMessage         = "Your quote has expired. Please return to the property page and get a new quote."
	SubmissionInProgressMessage = "This booking is already being processed. Please wait for your confirmation before trying again."
	NoQuoteMessage              = "Please get a price quote before booking."
	PaymentFallbackMessage      = "Failed to process payment details"
)

var (
	ErrQuoteExpired         = errors.New("booking: quote expired")
	ErrSubmissionInProgress = errors.New("booking: submission already in progress")
	ErrNoQuote              = errors.New("booking: no quote")
)

// ValidationError is a local input problem caught before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// RemoteError is a failed provider call rewritten into a category message.
// The original error stays reachable through Unwrap for logging.
type RemoteError struct {
	Category Category
	Message  string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// PaymentError is a tokenization failure. Message is the payment
// provider's own text, already suitable for the guest.
type PaymentError struct {
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment: %v", e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// UserMessage returns the text a guest should see for err.
func UserMessage(err error) string {
	var (
		vErr *ValidationError
		rErr *RemoteError
		pErr *PaymentError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &rErr):
		return rErr.Message
	case errors.As(err, &pErr):
		return pErr.Message
	case errors.Is(err, ErrQuoteExpired):
		return QuoteExpiredMessage
	case errors.Is(err, ErrSubmissionInProgress):
		return SubmissionInProgressMessage
	case errors.Is(err, ErrNoQuote):
		return NoQuoteMessage
	default:
		return categoryMessages[CategoryGeneric]
	}
}
