package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
)

const DefaultCurrency = "USD"

// Quote is the canonical fare breakdown shown to the guest.
type Quote struct {
	ID                string     `json:"id"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	Nights            int        `json:"nights"`
	AccommodationFare float64    `json:"accommodationFare"`
	CleaningFare      float64    `json:"cleaningFare"`
	Subtotal          float64    `json:"subtotal"`
	Taxes             float64    `json:"taxes"`
	Total             float64    `json:"total"`
	Currency          string     `json:"currency"`
}

// NormalizeQuote reshapes the provider quote. It never fails: missing or
// non-numeric amounts count as zero so a partially priced quote still renders.
// The first rate plan is the one that gets booked.
func NormalizeQuote(raw *domain.RawQuote) Quote {
	q := Quote{Currency: DefaultCurrency}
	if raw == nil {
		return q
	}

	q.ID = string(raw.ID)
	q.ExpiresAt = parseExpiry(string(raw.ExpiresAt))

	if len(raw.Rates.RatePlans) == 0 {
		return q
	}
	plan := raw.Rates.RatePlans[0]
	money := plan.RatePlan.Money

	q.Nights = len(plan.Days)
	q.AccommodationFare = money.FareAccommodation.Float()
	q.CleaningFare = money.FareCleaning.Float()
	q.Subtotal = money.SubTotalPrice.Float()
	if q.Subtotal == 0 {
		q.Subtotal = q.AccommodationFare + q.CleaningFare
	}
	q.Taxes = money.TotalTaxes.Float()
	q.Total = q.Subtotal + q.Taxes
	if c := strings.ToUpper(strings.TrimSpace(string(money.Currency))); isCurrencyCode(c) {
		q.Currency = c
	}
	return q
}

// parseExpiry accepts RFC 3339 text or a Unix timestamp in seconds or
// milliseconds. Anything else means no expiry.
func parseExpiry(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	var t time.Time
	if n >= 1e12 {
		t = time.UnixMilli(n).UTC()
	} else {
		t = time.Unix(n, 0).UTC()
	}
	return &t
}

func isCurrencyCode(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Expired reports whether the provider's validity window has closed at now.
// A quote without an expiry never expires.
func (q *Quote) Expired(now time.Time) bool {
	if q == nil || q.ExpiresAt == nil {
		return false
	}
	return !now.Before(*q.ExpiresAt)
}
