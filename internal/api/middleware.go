package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/metrics"
	"shareit/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", w.Header().Get(requestIDHeader)).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitMiddleware сперва проверяет общий token bucket процесса,
// затем персональную квоту клиента в failover-лимитере.
func rateLimitMiddleware(global *rate.Limiter, perUser repository.RateLimiter, cfg config.RateLimitConfig, logger *zerolog.Logger, next http.Handler) http.Handler {
	window := time.Duration(cfg.UserWindow) * time.Second

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if global != nil && !global.Allow() {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if perUser != nil && cfg.UserRequests > 0 {
			allowed, err := perUser.Allow(r.Context(), clientKey(r), cfg.UserRequests, window)
			if err != nil {
				// Лимитер недоступен — пропускаем, а не отказываем всем
				logger.Error().Err(err).Msg("rate limiter check failed")
			} else if !allowed {
				metrics.IncRateLimited()
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.IncHTTP(endpoint, strconv.Itoa(recorder.status))
	})
}

// clientKey — идентификатор клиента для персональной квоты:
// заголовок пользователя, иначе адрес.
func clientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get(userIDHeader)); userID != "" {
		return userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
