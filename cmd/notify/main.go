package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/luxury-stays/internal/notify"
	"github.com/diagnosis/luxury-stays/internal/platform/mailer"
	"github.com/diagnosis/luxury-stays/pkg/config"
	"github.com/diagnosis/luxury-stays/pkg/events"
	"github.com/diagnosis/luxury-stays/pkg/logger"
	mw "github.com/diagnosis/luxury-stays/pkg/middleware"
)

const queueGroup = "notify"

func main() {
	cfg := config.Load()
	logger.SetDefault(logger.New(os.Getenv("LOG_LEVEL")))

	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required for the notify worker")
		os.Exit(1)
	}

	bus, err := events.NewNATSEventBus(cfg.NATS.URL, "luxury-stays-notify")
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	mail := mailer.New(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.From)
	n := notify.New(mail, cfg.Email.OpsEmail, cfg.Site.Name)
	if err := n.Subscribe(bus, queueGroup); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("notify"))
	r.Use(mw.Health(map[string]mw.Pinger{"nats": bus}))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("notify\n"))
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down notify service...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Notify service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting notify service", "port", cfg.Server.Port, "queue", queueGroup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Notify service error", "error", err)
		os.Exit(1)
	}
}
