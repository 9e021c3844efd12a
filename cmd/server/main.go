// Package main is the entry point for the Woody's Wild Guess server.
// It wires the Twitter OAuth client, the Hugging Face classifier, the
// moderated chat hub, and the HTTP server together.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/woodycollective/woodyswildguess/internal/chat"
	"github.com/woodycollective/woodyswildguess/internal/config"
	httpserver "github.com/woodycollective/woodyswildguess/internal/http"
	"github.com/woodycollective/woodyswildguess/internal/huggingface"
	"github.com/woodycollective/woodyswildguess/internal/moderation"
	"github.com/woodycollective/woodyswildguess/internal/ratelimit"
	"github.com/woodycollective/woodyswildguess/internal/twitter"
	"github.com/woodycollective/woodyswildguess/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		// Sync errors on stdout/stderr are expected and can be safely
		// ignored for non-syncable file descriptors
		_ = log.Sync()
	}()

	log.Info("starting Woody's Wild Guess server",
		zap.String("environment", cfg.Server.Env),
		zap.String("http_port", cfg.Server.HTTPPort),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Twitter client with rate limiting
	twitterClient := twitter.NewClient(cfg, log)
	rateLimiter := ratelimit.NewRateLimiter(log)
	twitterClient.SetRateLimiter(rateLimiter)

	// Initialize classifier and moderation policy
	classifier := huggingface.NewClient(cfg, log)
	policy := moderation.NewPolicy()

	// Initialize chat hub and broadcast gateway
	hub := chat.NewHub(log)
	gateway := chat.NewGateway(hub, classifier, policy, log)
	go hub.Run(ctx)

	// Initialize HTTP server
	handlers := httpserver.NewHandlers(twitterClient, hub, gateway, log)
	server := httpserver.NewServer(handlers, cfg.Server.HTTPPort, log)

	httpErrChan := make(chan error, 1)
	go func() {
		if err := server.Serve(); err != nil {
			httpErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-httpErrChan:
		log.Fatal("HTTP server error", zap.Error(err))
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server gracefully", zap.Error(err))
	}

	log.Info("server shut down successfully")
}
