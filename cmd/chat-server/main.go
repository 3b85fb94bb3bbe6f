package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/distchat/chat-cluster/internal/admin"
	"github.com/distchat/chat-cluster/internal/config"
	"github.com/distchat/chat-cluster/internal/server"
)

func main() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().
		Timestamp().
		Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	logger = logger.With().Uint32("server", cfg.ServerID).Logger()

	for _, entry := range cfg.Malformed {
		logger.Warn().Str("entry", entry).Msg("Skipping malformed peer entry")
	}
	logger.Info().
		Str("address", cfg.Address()).
		Int("peers", len(cfg.Peers)).
		Msg("Starting chat replica")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	srv := server.New(cfg, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start replica")
	}

	var httpServer *http.Server
	if cfg.HTTPPort > 0 {
		handler := admin.NewHandler(srv.Registry(), srv.Elector(), srv.History(), logger)
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler: handler.Router(),
		}
		go func() {
			logger.Info().Int("port", cfg.HTTPPort).Msg("Admin HTTP server starting")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("Admin HTTP server error")
			}
		}()
	}

	<-ctx.Done()

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Admin HTTP server shutdown error")
		}
		shutdownCancel()
	}
	srv.Stop()

	logger.Info().Msg("Chat replica shut down gracefully")
}
