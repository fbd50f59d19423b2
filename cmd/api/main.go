package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diagnosis/luxury-stays/internal/booking"
	"github.com/diagnosis/luxury-stays/internal/http/handlers"
	"github.com/diagnosis/luxury-stays/internal/http/middleware"
	"github.com/diagnosis/luxury-stays/internal/inquiry"
	"github.com/diagnosis/luxury-stays/internal/notify"
	"github.com/diagnosis/luxury-stays/internal/platform/mailer"
	"github.com/diagnosis/luxury-stays/internal/platform/payments"
	"github.com/diagnosis/luxury-stays/internal/platform/provider"
	"github.com/diagnosis/luxury-stays/internal/repo/postgres"
	"github.com/diagnosis/luxury-stays/internal/repo/redis"
	"github.com/diagnosis/luxury-stays/internal/seo"
	"github.com/diagnosis/luxury-stays/pkg/config"
	"github.com/diagnosis/luxury-stays/pkg/database"
	"github.com/diagnosis/luxury-stays/pkg/events"
	"github.com/diagnosis/luxury-stays/pkg/logger"
	mw "github.com/diagnosis/luxury-stays/pkg/middleware"
)

// sessionStore backs both the submission guard and idempotent replay.
type sessionStore interface {
	booking.SubmissionGuard
	mw.IdempotencyStore
	mw.Pinger
	Close() error
}

func main() {
	cfg := config.Load()
	logger.SetDefault(logger.New(os.Getenv("LOG_LEVEL")))

	ctx := context.Background()
	health := map[string]mw.Pinger{}

	// Optional Postgres: inquiry storage, and the guard store when Redis is absent
	var (
		inquiryStore inquiry.Store
		pgStore      *postgres.IdempotencyRepoImpl
	)
	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo := postgres.NewInquiryRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to prepare inquiries table", "error", err)
			os.Exit(1)
		}
		inquiryStore = repo
		health["postgres"] = repo

		if cfg.Redis.URL == "" {
			pgStore = postgres.NewIdempotencyRepo(pool, cfg.Redis.GuardTTL)
			if err := pgStore.EnsureSchema(ctx); err != nil {
				logger.Error("Failed to prepare idempotency table", "error", err)
				os.Exit(1)
			}
			if n, err := pgStore.CleanupExpired(ctx); err != nil {
				logger.Warn("Failed to clean up idempotency records", "error", err)
			} else if n > 0 {
				logger.Info("Removed expired idempotency records", "count", n)
			}
		}
	}

	// Guard and idempotency store
	var store sessionStore
	switch {
	case cfg.Redis.URL != "":
		rs, err := redis.Connect(ctx, cfg.Redis.URL, cfg.Redis.GuardTTL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		store = rs
		health["redis"] = rs
	case pgStore != nil:
		store = pgStore
	default:
		logger.Warn("Neither REDIS_URL nor DATABASE_URL set, using in-memory submission guard")
		store = redis.NewMemoryStore(cfg.Redis.GuardTTL)
	}
	defer store.Close()

	// Event bus; without NATS the ops inbox is mailed in-process
	var bus events.Publisher
	if cfg.NATS.URL != "" {
		nb, err := events.NewNATSEventBus(cfg.NATS.URL, "luxury-stays-web")
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = nb
		health["nats"] = nb
	} else {
		mail := mailer.New(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.From)
		bus = notify.NewDirectPublisher(notify.New(mail, cfg.Email.OpsEmail, cfg.Site.Name))
	}
	defer bus.Close()

	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, payments will fail")
	} else if cfg.Stripe.Environment != "production" && !strings.HasPrefix(cfg.Stripe.SecretKey, "sk_test_") {
		logger.Warn("Live Stripe key configured outside production", "stripe_env", cfg.Stripe.Environment)
	}

	client := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)
	ctrl := booking.NewController(client, payments.NewStripeTokenizer(cfg.Stripe.SecretKey), store, cfg.Site.Location())

	router := handlers.NewRouter(handlers.Deps{
		Service: "web",
		Site: handlers.SiteInfo{
			Name:                 cfg.Site.Name,
			StripePublishableKey: cfg.Stripe.PublishableKey,
			Timezone:             cfg.Site.Timezone,
		},
		CORSOrigins: cfg.Server.CORSOrigins,
		TrustProxy:  cfg.Server.TrustProxy,
		Listings:    handlers.NewListingsHandler(client, seo.NewBuilder(cfg.Site.Name, cfg.Site.BaseURL, "Utah")),
		Booking: handlers.NewBookingHandler(client, ctrl, bus, handlers.NavigationConfig{
			Secret: cfg.Navigation.Secret,
			TTL:    cfg.Navigation.TTL,
		}, cfg.Stripe.PublishableKey),
		Inquiries: handlers.NewInquiryHandler(inquiry.NewService(inquiryStore, bus)),
		RateLimiter: middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Burst:             cfg.RateLimit.Burst,
		}),
		Idempotency:    store,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Health:         health,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down web service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Web service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting web service", "port", cfg.Server.Port, "timezone", cfg.Site.Timezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Web service error", "error", err)
		os.Exit(1)
	}
	<-done
}
