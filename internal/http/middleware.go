package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument logs every request and feeds the request metrics. Routes are
// labelled with the matched mux pattern to keep label cardinality bounded.
func (api *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := api.now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := api.now().Sub(started)

		api.metrics.ObserveRequest(r.Method, route, status, elapsed)

		entry := logging.WithFields(api.logger, map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      status,
			"bytes":       rec.bytes,
			"duration_ms": elapsed.Milliseconds(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("http.request.failed")
		case status >= http.StatusBadRequest:
			entry.Warn("http.request.rejected")
		default:
			entry.Debug("http.request.served")
		}
	})
}
