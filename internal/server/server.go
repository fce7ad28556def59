// Package server assembles the chi router and the HTTP middleware stack.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// requestTimeout bounds one analysis request end to end. Vision inference
// allows 30s and text generation 15s, so the budget covers a slow pass
// through both.
const requestTimeout = 60 * time.Second

// Server holds the assembled router. The caller owns the listener so it can
// manage graceful shutdown.
type Server struct {
	Router *chi.Mux
	Port   int
}

func New(port int, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(requestTimeout))
	r.Use(middleware.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "mindtrace-engine")
	})

	return &Server{
		Router: r,
		Port:   port,
	}
}
