package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

type recorded struct {
	method string
	uri    string
	auth   string
	reqID  string
	body   string
}

func newTestServer(t *testing.T, status int, reply string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get("X-Request-ID"),
			body:   string(b),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", "key-1", time.Second), rec
}

func TestListListings_OmitsZeroFilters(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"results":[{"_id":"l1","title":"Aspen"}],"count":1}`)

	page, err := c.ListListings(context.Background(), ListingsQuery{City: "Park City", Limit: 20})
	if err != nil {
		t.Fatalf("ListListings: %v", err)
	}
	if rec.uri != "/api/listings?city=Park+City&limit=20" {
		t.Errorf("uri = %q", rec.uri)
	}
	if rec.auth != "Bearer key-1" {
		t.Errorf("auth = %q", rec.auth)
	}
	if len(page.Results) != 1 || page.Results[0].ID != "l1" {
		t.Errorf("page = %+v", page)
	}

	if _, err := c.ListListings(context.Background(), ListingsQuery{}); err != nil {
		t.Fatal(err)
	}
	if rec.uri != "/api/listings" {
		t.Errorf("empty query uri = %q", rec.uri)
	}
}

func TestGetAvailability(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `[{"date":"2026-06-10","status":"booked"}]`)

	days, err := c.GetAvailability(context.Background(), "l1", "2026-06-01", "2026-06-30")
	if err != nil {
		t.Fatal(err)
	}
	if rec.uri != "/api/listings/availability?endDate=2026-06-30&listingId=l1&startDate=2026-06-01" {
		t.Errorf("uri = %q", rec.uri)
	}
	if len(days) != 1 || days[0].Status != domain.DayBooked {
		t.Errorf("days = %+v", days)
	}
}

func TestCreateQuote_SendsBodyAndRequestID(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"_id":"q-1","rates":{"ratePlans":[{"ratePlan":{"money":{"fareAccommodation":"500"}}}]}}`)

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-9")
	raw, err := c.CreateQuote(ctx, domain.QuoteRequest{ListingID: "l1", CheckIn: "2026-06-10", CheckOut: "2026-06-12", Guests: 2})
	if err != nil {
		t.Fatal(err)
	}
	if rec.method != http.MethodPost || rec.uri != "/api/reservations/quotes" {
		t.Errorf("%s %s", rec.method, rec.uri)
	}
	if rec.reqID != "req-9" {
		t.Errorf("request id = %q", rec.reqID)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(rec.body), &body); err != nil {
		t.Fatal(err)
	}
	if body["listingId"] != "l1" || body["checkInDateLocalized"] != "2026-06-10" || body["guestsCount"] != 2.0 {
		t.Errorf("body = %v", body)
	}
	if raw.ID != "q-1" || raw.Rates.RatePlans[0].RatePlan.Money.FareAccommodation != 500 {
		t.Errorf("raw = %+v", raw)
	}
}

func TestCreateInstantReservation_Path(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"reservationId":"res-1","confirmationCode":"ABC"}`)

	res, err := c.CreateInstantReservation(context.Background(), domain.InstantReservationRequest{QuoteID: "q/1", PaymentMethodID: "pm_1"})
	if err != nil {
		t.Fatal(err)
	}
	if rec.uri != "/api/reservations/quotes/q%2F1/instant" {
		t.Errorf("uri = %q", rec.uri)
	}
	if res.ReservationID != "res-1" {
		t.Errorf("res = %+v", res)
	}
}

func TestAPIError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusConflict, `{"message":"Dates not available"}`)

	_, err := c.GetListing(context.Background(), "l1")
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || !strings.Contains(apiErr.Body, "Dates not available") {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := c.ListCities(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("transport failure reported as APIError")
	}
}
