package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoudMawad/Ignite-sub000/config"
	httpDelivery "github.com/JoudMawad/Ignite-sub000/internal/delivery/http"
	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"github.com/JoudMawad/Ignite-sub000/internal/infrastructure/cache"
	"github.com/JoudMawad/Ignite-sub000/internal/infrastructure/usda"
	"github.com/JoudMawad/Ignite-sub000/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Ignite Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: %s (ttl %s, sweep %s)", cfg.Cache.Type, cfg.Cache.TTL, cfg.Cache.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(ctx, cfg.Cache.SweepInterval)

	var usdaClient domain.USDAClient
	if cfg.LookupEnabled() {
		client := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, cfg.RateLimit.USDA)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
			log.Printf("USDA client debug mode enabled")
		}
		usdaClient = client
		log.Printf("USDA API configured: %s (%d req/h)", cfg.USDA.BaseURL, cfg.RateLimit.USDA)
	} else {
		log.Printf("WARNING: USDA API key not configured, food search will answer 503")
	}

	// Initialize usecase layer
	labelService := usecase.NewLabelService(memoryCache, usecase.LabelServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		MaxTextBytes:       cfg.Parser.MaxTextBytes,
		EnableDebugLogging: cfg.Parser.EnableDebugLogging,
	})

	foodService := usecase.NewFoodService(memoryCache, usdaClient, usecase.FoodServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		MinConfidence:      cfg.Matching.MinConfidence,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Parser: debug=%v, max text %d bytes", cfg.Parser.EnableDebugLogging, cfg.Parser.MaxTextBytes)
	log.Printf("Matching: confidence=%.0f%%, debug=%v", cfg.Matching.MinConfidence, cfg.Matching.EnableDebugLogging)

	handler := httpDelivery.NewHandler(labelService, foodService)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Printf("Server stopped")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
