package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// HTTPObserver records request telemetry.
type HTTPObserver interface {
	RequestStarted()
	RequestFinished()
	ObserveHTTPRequest(method, route string, status int, took time.Duration)
}

// Metrics returns middleware that reports every request to obs, labelled by
// chi route pattern rather than raw path.
func Metrics(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			obs.RequestStarted()
			defer obs.RequestFinished()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			obs.ObserveHTTPRequest(r.Method, routePattern(r), statusOf(ww), time.Since(start))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, body types.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
