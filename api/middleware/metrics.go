package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"poolshop_server/api/health"
)

// routeLabel returns the matched chi pattern, or "unmatched" for 404s so
// unknown paths share one series.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		health.HttpInFlight.Inc()
		defer health.HttpInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routeLabel(r)
		status := strconv.Itoa(ww.Status())

		health.HttpRequests.WithLabelValues(r.Method, route, status).Inc()
		health.HttpDuration.WithLabelValues(r.Method, route, status).
			Observe(time.Since(start).Seconds())
	})
}
