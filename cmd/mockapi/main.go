// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

// Command mockapi runs the in-memory course-review API server for local
// development of the CourseScope client.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the in-memory store (seeded catalog) and token service.
//  4. Start the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/coursescope/coursescope/internal/mockapi"
)

// serverConfig holds the mock server's runtime settings.
type serverConfig struct {
	// Port the HTTP server binds to.
	Port string `env:"MOCKAPI_PORT" envDefault:"8080"`

	// JWTSecret signs issued access tokens. Empty means "generate a random
	// one at startup" (sessions then do not survive a restart).
	JWTSecret string `env:"MOCKAPI_JWT_SECRET"`

	// TokenTTLHours bounds how long issued tokens stay valid.
	TokenTTLHours int `env:"MOCKAPI_TOKEN_TTL_HOURS" envDefault:"24"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", "coursescope-mockapi"))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	_ = godotenv.Load()
	cfg := &serverConfig{}
	must(log, env.Parse(cfg), "load configuration")

	if cfg.Debug {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With(slog.String("app", "coursescope-mockapi"))
		slog.SetDefault(log)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret(log)
		log.Warn("generated ephemeral jwt secret; sessions will not survive a restart")
	}

	log.Info("configuration_loaded", slog.String("port", cfg.Port))

	// ── 3. Wiring ─────────────────────────────────────────────────────────
	// Root context bounds the server's background work (rate limiter cleanup).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	store := mockapi.NewStore()
	tokens := mockapi.NewTokenService(secret, "coursescope-mockapi", time.Duration(cfg.TokenTTLHours)*time.Hour)
	server := mockapi.NewServer(rootCtx, ":"+cfg.Port, store, tokens, log)

	// ── 4. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	if err := server.Shutdown(10 * time.Second); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// randomSecret generates a 32-byte hex secret for token signing.
func randomSecret(log *slog.Logger) string {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		must(log, fmt.Errorf("generate jwt secret: %w", err), "generate jwt secret")
	}
	return hex.EncodeToString(raw)
}

// must logs a structured fatal error and terminates the process if err is
// non-nil. Intentionally limited to startup wiring.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
