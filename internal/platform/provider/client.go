package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/pkg/logger"
	"github.com/google/go-querystring/query"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the booking-data provider.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider request failed: %s - %s", e.Status, e.Body)
}

// AsAPIError unwraps err to an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ListingsQuery filters GET /listings. Zero values are left out of the query.
type ListingsQuery struct {
	City      string `url:"city,omitempty"`
	Occupancy int    `url:"occupancy,omitempty"`
	Bedrooms  int    `url:"bedrooms,omitempty"`
	Limit     int    `url:"limit,omitempty"`
	Skip      int    `url:"skip,omitempty"`
}

type availabilityQuery struct {
	ListingID string `url:"listingId"`
	StartDate string `url:"startDate"`
	EndDate   string `url:"endDate"`
}

// Client talks to the booking-data provider. It holds no per-call state and
// never retries; a failed call is retried only when the user clicks again.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) ListListings(ctx context.Context, q ListingsQuery) (*domain.ListingsPage, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode listings query: %w", err)
	}

	path := "/listings"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page domain.ListingsPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := c.do(ctx, http.MethodGet, "/listings/"+url.PathEscape(listingID), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) GetAvailability(ctx context.Context, listingID, startDate, endDate string) ([]domain.AvailabilityDay, error) {
	values, err := query.Values(availabilityQuery{ListingID: listingID, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, fmt.Errorf("failed to encode availability query: %w", err)
	}

	var days []domain.AvailabilityDay
	if err := c.do(ctx, http.MethodGet, "/listings/availability?"+values.Encode(), nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *Client) ListCities(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	if err := c.do(ctx, http.MethodGet, "/listings/cities", nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

func (c *Client) CreateQuote(ctx context.Context, req domain.QuoteRequest) (*domain.RawQuote, error) {
	var quote domain.RawQuote
	if err := c.do(ctx, http.MethodPost, "/reservations/quotes", req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) CreateInstantReservation(ctx context.Context, req domain.InstantReservationRequest) (*domain.Reservation, error) {
	var res domain.Reservation
	path := "/reservations/quotes/" + url.PathEscape(req.QuoteID) + "/instant"
	if err := c.do(ctx, http.MethodPost, path, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	logger.DebugContext(ctx, "Provider request", "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "Provider request error", "method", method, "path", path, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
		logger.ErrorContext(ctx, "Provider API error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", apiErr.Body,
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
