// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

package mockapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/coursescope/coursescope/internal/platform/apperr"
)

// # Identity Context

type contextKey int

const claimsKey contextKey = iota

// claimsFrom returns the verified claims of the request, or nil when the
// request is anonymous.
func claimsFrom(request *http.Request) *Claims {
	claims, _ := request.Context().Value(claimsKey).(*Claims)
	return claims
}

// authenticate verifies the bearer token when present and attaches the claims
// to the request context. Requests without a token pass through anonymously;
// requests with an invalid or expired token are rejected so the client's
// session-expiry interception fires.
func authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				writeError(writer, apperr.Unauthorized("Malformed Authorization header"))
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				writeError(writer, apperr.Unauthorized("Your session has expired. Please log in again."))
				return
			}

			ctx := context.WithValue(request.Context(), claimsKey, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// requireAuth rejects anonymous requests.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if claimsFrom(request) == nil {
			writeError(writer, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// structuredLogger logs every request's status and latency.
func structuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request)

			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			logger.Log(request.Context(), logLevel, "http_request_finished",
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
			)
		})
	}
}

// # Rate Limiting

const (
	rateLimitRPS             = 50
	rateLimitBurst           = 100
	rateLimitClientTTL       = 10 * time.Minute
	rateLimitCleanupInterval = time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter limits requests per client IP using a token bucket per IP.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
}

// newRateLimiter starts the limiter and its idle-client cleanup, which stops
// when ctx is cancelled.
func newRateLimiter(ctx context.Context) *rateLimiter {
	limiter := &rateLimiter{clients: make(map[string]*rateLimitClient)}

	go func() {
		ticker := time.NewTicker(rateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.mu.Lock()
				for ip, clientInfo := range limiter.clients {
					if time.Since(clientInfo.lastSeen) > rateLimitClientTTL {
						delete(limiter.clients, ip)
					}
				}
				limiter.mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return limiter
}

func (limiter *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		clientIP := realIP(request)

		limiter.mu.Lock()
		clientInfo, found := limiter.clients[clientIP]
		if !found {
			clientInfo = &rateLimitClient{
				limiter: rate.NewLimiter(rate.Limit(rateLimitRPS), rateLimitBurst),
			}
			limiter.clients[clientIP] = clientInfo
		}
		clientInfo.lastSeen = time.Now()
		allowed := clientInfo.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			writeJSON(writer, http.StatusTooManyRequests, errorEnvelope{
				Error: "Rate limit exceeded",
				Code:  "TOO_MANY_REQUESTS",
			})
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// # Reliability

// panicRecovery recovers from handler panics, logs the stack, and returns 500.
func panicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					logger.ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)
					writeJSON(writer, http.StatusInternalServerError, errorEnvelope{
						Error: "An unexpected error occurred",
						Code:  "INTERNAL_ERROR",
					})
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// realIP extracts the client IP, respecting common proxy headers.
func realIP(request *http.Request) string {
	if ip := request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}
