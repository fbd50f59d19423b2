package booking

import (
	"net/http"
	"strings"

	"github.com/diagnosis/luxury-stays/internal/platform/provider"
)

type Category string

const (
	CategoryAvailability Category = "availability"
	CategoryRateLimited  Category = "rate_limited"
	CategoryMalformed    Category = "malformed_request"
	CategoryNotFound     Category = "not_found"
	CategoryGeneric      Category = "generic"
)

var categoryMessages = map[Category]string{
	CategoryAvailability: "The selected dates are not available due to booking restrictions. Please try different dates.",
	CategoryRateLimited:  "We are receiving a lot of requests right now. Please wait a moment and try again.",
	CategoryMalformed:    "Some booking details look invalid. Please check your dates and number of guests and try again.",
	CategoryNotFound:     "This property could not be found. It may no longer be available for booking.",
	CategoryGeneric:      "Failed to get quote. Please try again.",
}

const reservationGenericMessage = "Failed to complete booking. Please try again."

var availabilityMarkers = []string{
	"restriction",
	"not available",
	"not_available",
	"min nights",
	"min_nights",
	"minimum nights",
	"minimum stay",
	"max nights",
	"maximum nights",
	"booking rule",
	"blocked",
	"already booked",
	"overlap",
}

var rateLimitMarkers = []string{"rate limit", "too many requests", "throttl"}

var notFoundMarkers = []string{"not found", "does not exist", "no such"}

var malformedMarkers = []string{"invalid", "malformed", "bad request", "validation", "required"}

// Categorize maps a provider failure to one of the fixed guest-facing
// categories. Error text wins over status codes because providers report
// booking-rule conflicts under generic 400s.
func Categorize(err error) Category {
	if err == nil {
		return CategoryGeneric
	}

	status := 0
	text := err.Error()
	if apiErr, ok := provider.AsAPIError(err); ok {
		status = apiErr.StatusCode
		text = apiErr.Body
	}
	text = strings.ToLower(text)

	switch {
	case containsAny(text, availabilityMarkers) || status == http.StatusConflict:
		return CategoryAvailability
	case status == http.StatusTooManyRequests || containsAny(text, rateLimitMarkers):
		return CategoryRateLimited
	case status == http.StatusNotFound || containsAny(text, notFoundMarkers):
		return CategoryNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || containsAny(text, malformedMarkers):
		return CategoryMalformed
	default:
		return CategoryGeneric
	}
}

// CategoryMessage is the guest-facing text for c.
func CategoryMessage(c Category) string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}
	return categoryMessages[CategoryGeneric]
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
