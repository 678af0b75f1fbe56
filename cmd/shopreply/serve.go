package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/shopreply/internal/buildinfo"
	"github.com/xelth-com/shopreply/internal/database"
	"github.com/xelth-com/shopreply/internal/handlers"
	"github.com/xelth-com/shopreply/internal/mailer"
	"github.com/xelth-com/shopreply/internal/middleware"
)

func runServe(port string) error {
	// 1. Load configuration
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if port == "" {
		port = cfg.Port
	}

	// 2. Build pipeline
	a, err := buildApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := handlers.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
	}
	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️ Auth: JWT_SECRET not set, /process-email is unauthenticated")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		opts.RateLimiter = limiter
		log.Printf("✅ Rate limit: %d req/s, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// 3. Set up HTTP router
	router := handlers.NewRouter(a.pipeline, opts)

	// 4. Optional audit trail
	var db *database.DB
	if cfg.Database.URL != "" {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Printf("⚠️ Audit: %v, continuing without audit trail", err)
		} else {
			router.SetAuditStore(db)
			log.Println("✅ Audit: recording to PostgreSQL")
		}
	}

	// 5. Optional outbound mail
	if cfg.SMTP.Host != "" {
		router.SetMailer(mailer.NewSMTPSender(cfg.SMTP))
		log.Printf("📧 Mail: sending via %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	stopCleanup := make(chan struct{})
	if limiter != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					limiter.Cleanup(3 * time.Minute)
				case <-stopCleanup:
					return
				}
			}
		}()
	}

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 %s starting on port %s", buildinfo.Summary(), port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-shutdown:
		log.Printf("⚠️  Received signal: %v. Shutting down gracefully...", sig)
	case err := <-serverErr:
		close(stopCleanup)
		return err
	}
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if db != nil {
		log.Println("🛑 Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
	return nil
}
