package middleware

import (
	"net/http"
	"strconv"
	"time"

	"activitysignup/internal/observability"
)

// MetricsMiddleware observes request latency labelled by method and status code.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)
		observability.HTTPRequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(wrapped.status)).
			Observe(time.Since(start).Seconds())
	})
}
