package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohits-web03/cardealer/internal/api"
	"github.com/rohits-web03/cardealer/internal/api/handlers"
	"github.com/rohits-web03/cardealer/internal/api/services"
	"github.com/rohits-web03/cardealer/internal/auth"
	"github.com/rohits-web03/cardealer/internal/config"
	"github.com/rohits-web03/cardealer/internal/repositories"
)

// @title CarDealer API
// @version 1.0
// @description Multi-tenant car dealership management API.
// @BasePath /api/v1
func main() {
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DBURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	h := handlers.New(
		repositories.NewUserStore(db),
		repositories.NewListingStore(db),
		auth.NewSessionManager(cfg.JWTSecret, cfg.IsProd()),
		services.NewMailer(cfg.SMTP, cfg.AppBaseURL),
		services.NewGoogleOAuth(cfg.Google),
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h, cfg),
		// Read timeout is sized for synchronous 10 MiB uploads
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting CarDealer server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
