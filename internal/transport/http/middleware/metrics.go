package middleware

import (
	"net/http"
	"time"
)

// MetricsRecorder is satisfied by *metrics.Collector.
type MetricsRecorder interface {
	Record(route, method string, status int, duration time.Duration)
}

// Metrics records every request under its chi route pattern so that path
// parameters do not explode label cardinality.
func Metrics(rec MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			rec.Record(routePattern(r), r.Method, recorder.status, time.Since(start))
		})
	}
}
