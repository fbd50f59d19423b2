package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diagnosis/luxury-stays/internal/http/middleware"
	"github.com/diagnosis/luxury-stays/internal/http/response"
	mw "github.com/diagnosis/luxury-stays/pkg/middleware"
)

// SiteInfo is what the browser needs before rendering any view.
type SiteInfo struct {
	Name                 string `json:"siteName"`
	StripePublishableKey string `json:"stripePublishableKey"`
	Timezone             string `json:"timezone"`
}

type Deps struct {
	Service     string
	Site        SiteInfo
	CORSOrigins []string
	// TrustProxy rewrites RemoteAddr from proxy headers before rate limiting.
	TrustProxy bool

	Listings  *ListingsHandler
	Booking   *BookingHandler
	Inquiries *InquiryHandler

	RateLimiter    *middleware.RateLimiter
	Idempotency    mw.IdempotencyStore
	IdempotencyTTL time.Duration
	Health         map[string]mw.Pinger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName(d.Service))
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", StateHeader},
		ExposedHeaders:   []string{"X-Request-ID", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health(d.Health))

	limited := func(r chi.Router) chi.Router {
		if d.RateLimiter == nil {
			return r
		}
		return r.With(d.RateLimiter.Middleware())
	}

	r.Get("/api/config", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, d.Site)
	})
	r.Get("/", d.Listings.Home)
	r.Get("/api/listings", d.Listings.List)
	r.Get("/api/cities", d.Listings.Cities)

	r.Route("/property/{id}", func(r chi.Router) {
		r.Get("/", d.Listings.Property)
		r.Get("/availability", d.Listings.Availability)
		limited(r).Post("/quote", d.Booking.Quote)
		r.Get("/book", d.Booking.Checkout)

		book := limited(r)
		if d.Idempotency != nil {
			book = book.With(mw.IdempotencyMiddleware(d.Idempotency, d.IdempotencyTTL))
		}
		book.Post("/book", d.Booking.Book)
	})
	r.Get("/booking/confirm/{reservationId}", d.Booking.Confirmation)

	limited(r).Post("/contact", d.Inquiries.Contact)
	limited(r).Post("/property-management", d.Inquiries.PropertyManagement)

	return r
}
