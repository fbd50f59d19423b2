package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/luxury-stays/internal/booking"
	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/http/response"
	"github.com/diagnosis/luxury-stays/internal/platform/provider"
	"github.com/diagnosis/luxury-stays/internal/seo"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

const (
	featuredLimit = 20
	maxPageLimit  = 100
)

// ListingProvider is the read side of the booking-data API.
type ListingProvider interface {
	ListListings(ctx context.Context, q provider.ListingsQuery) (*domain.ListingsPage, error)
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	GetAvailability(ctx context.Context, listingID, startDate, endDate string) ([]domain.AvailabilityDay, error)
	ListCities(ctx context.Context) ([]domain.City, error)
}

type ListingsHandler struct {
	provider ListingProvider
	seo      *seo.Builder
}

func NewListingsHandler(p ListingProvider, meta *seo.Builder) *ListingsHandler {
	return &ListingsHandler{provider: p, seo: meta}
}

// ListingCard is a listing as shown in grids.
type ListingCard struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city,omitempty"`
	Image        string  `json:"image,omitempty"`
	Bedrooms     float64 `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	Accommodates int     `json:"accommodates"`
	BasePrice    float64 `json:"basePrice,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	URL          string  `json:"url"`
}

func cardFor(l *domain.Listing) ListingCard {
	s := l.Summary()
	c := ListingCard{
		ID:           l.ID,
		Name:         s.Name,
		City:         s.City,
		Image:        s.Image,
		Bedrooms:     l.Bedrooms.Float(),
		Bathrooms:    l.Bathrooms.Float(),
		Accommodates: l.Accommodates.Int(),
		URL:          "/property/" + l.ID,
	}
	if l.Prices != nil {
		c.BasePrice = l.Prices.BasePrice.Float()
		c.Currency = l.Prices.Currency
	}
	return c
}

func cards(page *domain.ListingsPage) []ListingCard {
	out := make([]ListingCard, 0, len(page.Results))
	for i := range page.Results {
		out = append(out, cardFor(&page.Results[i]))
	}
	return out
}

func (h *ListingsHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.provider.ListListings(r.Context(), provider.ListingsQuery{Limit: featuredLimit})
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load properties. Please try again.")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"meta":     h.seo.Home(),
		"listings": cards(page),
		"count":    page.Count,
	})
}

func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := provider.ListingsQuery{City: strings.TrimSpace(r.URL.Query().Get("city"))}

	ints := []struct {
		name string
		dst  *int
	}{
		{"bedrooms", &q.Bedrooms},
		{"occupancy", &q.Occupancy},
		{"limit", &q.Limit},
		{"skip", &q.Skip},
	}
	for _, p := range ints {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, p.name+" must be a non-negative integer")
			return
		}
		*p.dst = n
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	page, err := h.provider.ListListings(r.Context(), q)
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load properties. Please try again.")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"listings": cards(page),
		"count":    page.Count,
		"limit":    page.Limit,
		"skip":     page.Skip,
	})
}

func (h *ListingsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.provider.ListCities(r.Context())
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load cities. Please try again.")
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

// Property is the detail view.
func (h *ListingsHandler) Property(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, err := h.provider.GetListing(r.Context(), id)
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load property. Please try again.")
		return
	}

	maxGuests := l.Accommodates.Int()
	if maxGuests <= 0 {
		maxGuests = booking.DefaultMaxGuests
	}
	images := l.Images()
	if images == nil {
		images = []domain.Picture{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"meta":      h.seo.Property(l),
		"listing":   l,
		"summary":   l.Summary(),
		"images":    images,
		"maxGuests": maxGuests,
	})
}

func (h *ListingsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	from, err1 := time.Parse(booking.DateLayout, start)
	to, err2 := time.Parse(booking.DateLayout, end)
	if err1 != nil || err2 != nil {
		response.BadRequest(w, "start and end must be dates as YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "end must not be before start")
		return
	}

	days, err := h.provider.GetAvailability(r.Context(), id, start, end)
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load availability. Please try again.")
		return
	}
	if days == nil {
		days = []domain.AvailabilityDay{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"listingId": id,
		"start":     start,
		"end":       end,
		"days":      days,
	})
}

// writeUpstreamError reports a failed read from the provider. Only a
// missing resource is passed through; anything else is a bad gateway.
func writeUpstreamError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if apiErr, ok := provider.AsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
		response.NotFound(w, "Property not found")
		return
	}
	logger.ErrorContext(ctx, "Provider read failed", "error", err)
	response.BadGateway(w, msg)
}
