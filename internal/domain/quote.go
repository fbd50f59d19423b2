package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a provider number that tolerates junk: numbers and numeric
// strings decode to their value, anything else (null, objects, bools,
// unparseable text) decodes to zero without an error.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = 0
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 { return float64(a) }

// Int truncates toward zero.
func (a Amount) Int() int { return int(a) }

// Text is a provider string that tolerates junk: strings decode to their
// value, numbers to their literal text, anything else to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return nil
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			*t = Text(s)
		}
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*t = Text(raw)
	}
	return nil
}

// RawQuote is the provider's quote response. Only the identifier is
// guaranteed; every nested level may be missing or malformed.
type RawQuote struct {
	ID        Text       `json:"_id"`
	ExpiresAt Text       `json:"expiresAt,omitempty"`
	Rates     QuoteRates `json:"rates"`
}

type QuoteRates struct {
	RatePlans []RatePlanEntry `json:"ratePlans,omitempty"`
}

type RatePlanEntry struct {
	RatePlan RatePlan          `json:"ratePlan"`
	Days     []json.RawMessage `json:"days,omitempty"`
}

type RatePlan struct {
	ID    Text       `json:"_id,omitempty"`
	Money QuoteMoney `json:"money"`
}

type QuoteMoney struct {
	FareAccommodation Amount `json:"fareAccommodation"`
	FareCleaning      Amount `json:"fareCleaning"`
	SubTotalPrice     Amount `json:"subTotalPrice"`
	TotalTaxes        Amount `json:"totalTaxes"`
	Currency          Text   `json:"currency,omitempty"`
}

// decodeFields decodes each present key of a JSON object into its target
// on its own. A malformed value leaves only its own target at zero.
func decodeFields(b []byte, fields map[string]any) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for key, dst := range fields {
		if v, ok := obj[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	return nil
}

// The top level must be an object; below it every level swallows shape
// mismatches field by field.

func (q *RawQuote) UnmarshalJSON(b []byte) error {
	var v RawQuote
	if err := decodeFields(b, map[string]any{
		"_id":       &v.ID,
		"expiresAt": &v.ExpiresAt,
		"rates":     &v.Rates,
	}); err != nil {
		return err
	}
	*q = v
	return nil
}

func (r *QuoteRates) UnmarshalJSON(b []byte) error {
	var v QuoteRates
	_ = decodeFields(b, map[string]any{"ratePlans": &v.RatePlans})
	*r = v
	return nil
}

func (e *RatePlanEntry) UnmarshalJSON(b []byte) error {
	var v RatePlanEntry
	_ = decodeFields(b, map[string]any{
		"ratePlan": &v.RatePlan,
		"days":     &v.Days,
	})
	*e = v
	return nil
}

func (p *RatePlan) UnmarshalJSON(b []byte) error {
	var v RatePlan
	_ = decodeFields(b, map[string]any{
		"_id":   &v.ID,
		"money": &v.Money,
	})
	*p = v
	return nil
}

func (m *QuoteMoney) UnmarshalJSON(b []byte) error {
	var v QuoteMoney
	_ = decodeFields(b, map[string]any{
		"fareAccommodation": &v.FareAccommodation,
		"fareCleaning":      &v.FareCleaning,
		"subTotalPrice":     &v.SubTotalPrice,
		"totalTaxes":        &v.TotalTaxes,
		"currency":          &v.Currency,
	})
	*m = v
	return nil
}

// QuoteRequest is the body of POST /reservations/quotes.
type QuoteRequest struct {
	ListingID string `json:"listingId"`
	CheckIn   string `json:"checkInDateLocalized"`
	CheckOut  string `json:"checkOutDateLocalized"`
	Guests    int    `json:"guestsCount"`
}
