package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fudosan-ai/qualibot/config"
	"github.com/fudosan-ai/qualibot/internal/cache"
	"github.com/fudosan-ai/qualibot/internal/metrics"
	"github.com/fudosan-ai/qualibot/internal/responder"
	"github.com/fudosan-ai/qualibot/internal/service"
	"github.com/fudosan-ai/qualibot/internal/store"
	transport "github.com/fudosan-ai/qualibot/internal/transport/http"
	"github.com/fudosan-ai/qualibot/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting qualibot...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize session cache (optional)
	var sessionCache *cache.SessionCache
	if cfg.RedisAddr != "" {
		sessionCache, err = cache.NewSessionCache(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTimeout(),
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer sessionCache.Close()
		log.Printf("Session cache: %s", cfg.RedisAddr)
	} else {
		log.Printf("Session cache disabled")
	}

	// Initialize moderation policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize metrics
	metrics.Init()

	// Initialize service
	svc := service.New(db, sessionCache, responder.NewCanned(), policyEngine, cfg)

	// Expired-session sweep
	sweeper := cron.New()
	_, err = sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.CleanupInterval()), func() {
		count, err := svc.CleanupExpiredSessions(context.Background())
		if err != nil {
			log.Printf("Session cleanup failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Expired %d sessions", count)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule session cleanup: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create and start the API server
	server := transport.NewServer(svc, cfg)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down qualibot...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Qualibot stopped")
}
