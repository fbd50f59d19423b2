package booking

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
)

const sampleQuote = `{
	"_id": "q-123",
	"expiresAt": "2026-06-01T12:30:00Z",
	"rates": {"ratePlans": [{
		"ratePlan": {"_id": "rp-1", "money": {
			"fareAccommodation": 500,
			"fareCleaning": "100",
			"totalTaxes": 40,
			"currency": "USD"
		}},
		"days": [{}, {}, {}, {}, {}]
	}]}
}`

func decodeRaw(t *testing.T, body string) *domain.RawQuote {
	t.Helper()
	var raw domain.RawQuote
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode raw quote: %v", err)
	}
	return &raw
}

func TestNormalizeQuote_Sample(t *testing.T) {
	q := NormalizeQuote(decodeRaw(t, sampleQuote))

	if q.ID != "q-123" {
		t.Errorf("ID = %q", q.ID)
	}
	if q.Nights != 5 || q.AccommodationFare != 500 || q.CleaningFare != 100 ||
		q.Subtotal != 600 || q.Taxes != 40 || q.Total != 640 {
		t.Errorf("unexpected breakdown: %+v", q)
	}
	if q.Currency != "USD" {
		t.Errorf("Currency = %q", q.Currency)
	}
	want := time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)
	if q.ExpiresAt == nil || !q.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", q.ExpiresAt, want)
	}
}

func TestNormalizeQuote_PartialInputIsZero(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"_id": "q"}`,
		`{"_id": "q", "rates": null}`,
		`{"_id": "q", "rates": {"ratePlans": []}}`,
		`{"_id": "q", "rates": {"ratePlans": [{}]}}`,
		`{"_id": "q", "rates": {"ratePlans": [{"ratePlan": {"money": null}}]}}`,
		`{"_id": "q", "rates": {"ratePlans": [{"ratePlan": {"money": {"fareAccommodation": "abc", "totalTaxes": {}}}}]}}`,
		`{"_id": "q", "rates": "broken"}`,
	}
	for _, in := range inputs {
		q := NormalizeQuote(decodeRaw(t, in))
		if q.Nights != 0 || q.AccommodationFare != 0 || q.CleaningFare != 0 ||
			q.Subtotal != 0 || q.Taxes != 0 || q.Total != 0 {
			t.Errorf("%s: expected zeros, got %+v", in, q)
		}
		if q.Currency != DefaultCurrency {
			t.Errorf("%s: Currency = %q", in, q.Currency)
		}
	}

	if q := NormalizeQuote(nil); q.Total != 0 || q.ID != "" {
		t.Errorf("nil raw: %+v", q)
	}
}

func TestNormalizeQuote_SubtotalFromProvider(t *testing.T) {
	raw := decodeRaw(t, `{"_id": "q", "rates": {"ratePlans": [{
		"ratePlan": {"money": {"fareAccommodation": 500, "fareCleaning": 100, "subTotalPrice": 650, "totalTaxes": 50}},
		"days": [{}, {}]
	}]}}`)
	q := NormalizeQuote(raw)
	if q.Subtotal != 650 || q.Total != 700 || q.Nights != 2 {
		t.Errorf("unexpected breakdown: %+v", q)
	}
}

func TestNormalizeQuote_Idempotent(t *testing.T) {
	raw := decodeRaw(t, sampleQuote)
	first := NormalizeQuote(raw)
	second := NormalizeQuote(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("outputs differ:\n%+v\n%+v", first, second)
	}
}

func TestQuoteExpired(t *testing.T) {
	exp := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	q := &Quote{ExpiresAt: &exp}

	if q.Expired(exp.Add(-time.Second)) {
		t.Error("quote should be valid before expiry")
	}
	if !q.Expired(exp) {
		t.Error("quote should be expired at expiry")
	}
	if (&Quote{}).Expired(exp.Add(time.Hour)) {
		t.Error("quote without expiry should never expire")
	}

	bad := NormalizeQuote(decodeRaw(t, `{"_id": "q", "expiresAt": "tomorrow"}`))
	if bad.ExpiresAt != nil {
		t.Errorf("unparseable expiry should be dropped, got %v", bad.ExpiresAt)
	}
}

func TestNormalizeQuote_MalformedSiblingKeepsOtherFields(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		nights int
		total  float64
	}{
		{
			name: "numeric currency",
			body: `{"_id": "q", "rates": {"ratePlans": [{
				"ratePlan": {"money": {"fareAccommodation": 500, "fareCleaning": 100, "totalTaxes": 40, "currency": 840}},
				"days": [{}, {}]
			}]}}`,
			nights: 2, total: 640,
		},
		{
			name: "days not a list",
			body: `{"_id": "q", "rates": {"ratePlans": [{
				"ratePlan": {"money": {"fareAccommodation": 500, "fareCleaning": 100, "totalTaxes": 40}},
				"days": {"2026-06-10": {}}
			}]}}`,
			nights: 0, total: 640,
		},
		{
			name: "rate plan id is an object",
			body: `{"_id": "q", "rates": {"ratePlans": [{
				"ratePlan": {"_id": {"x": 1}, "money": {"fareAccommodation": 500, "fareCleaning": 100, "totalTaxes": 40}},
				"days": [{}, {}, {}]
			}]}}`,
			nights: 3, total: 640,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NormalizeQuote(decodeRaw(t, tt.body))
			if q.Nights != tt.nights || q.AccommodationFare != 500 || q.CleaningFare != 100 ||
				q.Subtotal != 600 || q.Taxes != 40 || q.Total != tt.total {
				t.Errorf("unexpected breakdown: %+v", q)
			}
			if q.Currency != DefaultCurrency {
				t.Errorf("Currency = %q", q.Currency)
			}
		})
	}
}

func TestNormalizeQuote_NumericExpiryAndID(t *testing.T) {
	q := NormalizeQuote(decodeRaw(t, `{"_id": 42, "expiresAt": 1767225600000}`))
	if q.ID != "42" {
		t.Errorf("ID = %q", q.ID)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if q.ExpiresAt == nil || !q.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", q.ExpiresAt, want)
	}

	q = NormalizeQuote(decodeRaw(t, `{"_id": "q", "expiresAt": 1767225600}`))
	if q.ExpiresAt == nil || !q.ExpiresAt.Equal(want) {
		t.Errorf("seconds: ExpiresAt = %v, want %v", q.ExpiresAt, want)
	}

	q = NormalizeQuote(decodeRaw(t, `{"_id": "q", "expiresAt": {"at": "soon"}}`))
	if q.ExpiresAt != nil {
		t.Errorf("object expiry should be dropped, got %v", q.ExpiresAt)
	}
}

func TestNormalizeQuote_LowercaseCurrency(t *testing.T) {
	q := NormalizeQuote(decodeRaw(t, `{"_id": "q", "rates": {"ratePlans": [{"ratePlan": {"money": {"currency": "eur"}}}]}}`))
	if q.Currency != "EUR" {
		t.Errorf("Currency = %q", q.Currency)
	}
}
