// Package server assembles the HTTP routes and middleware of the API.
package server

import (
	"context"
	"net/http"
	"time"

	"booksapi/internal/book"
	"booksapi/internal/httpx"

	"github.com/sirupsen/logrus"
)

const readyTimeout = 500 * time.Millisecond

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Books          *book.HTTPHandler
	DB             Pinger
	Logger         logrus.FieldLogger
	RateLimiter    *httpx.RateLimitMiddleware
	AllowedOrigins []string
	EnableHSTS     bool
	MaxBodyBytes   int64
}

// NewRouter returns the root handler. Middleware order, outermost first:
// request id, access log, recovery, security headers, CORS, rate limit,
// body size limit.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Logger.WithError(err).Warn("readiness check failed")
			httpx.JSONError(w, http.StatusServiceUnavailable, "db not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	d.Books.Register(mux)
	mux.HandleFunc("/", httpx.NotFound)

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.Logger),
		httpx.RecoveryMiddleware(d.Logger),
		httpx.SecurityHeadersMiddleware(d.EnableHSTS),
		httpx.CORSMiddleware(d.AllowedOrigins),
		d.RateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(d.MaxBodyBytes),
	)
}
