package middleware

import (
	"net/http"
	"time"

	"github.com/Lixing-Zhang/food-finder/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latencies by chi route pattern, so
// path parameters do not explode the label space
func Metrics(c *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			c.ObserveHTTP(r.Method, route, ww.statusCode, time.Since(start))
		})
	}
}
