package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the threshold above which a request logs at WARN.
// Override with JUDOCRM_SLOW_REQUEST_MS.
const DefaultSlowRequestMs = 200

var requestSeq atomic.Uint64

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func slowThresholdMs() float64 {
	if v := os.Getenv("JUDOCRM_SLOW_REQUEST_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return float64(n)
		}
	}
	return DefaultSlowRequestMs
}

// Timing logs the duration and status of every non-static request and, when
// collector is non-nil, feeds the perf dashboard. Slow requests log at WARN,
// the rest at DEBUG.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowThresholdMs()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			ms := float64(time.Since(start).Microseconds()) / 1000.0
			level := slog.LevelDebug
			event := "request"
			if ms >= threshold {
				level = slog.LevelWarn
				event = "slow_request"
			}
			slog.Log(r.Context(), level, event,
				"request_id", requestSeq.Add(1),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", ms,
			)

			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + r.URL.Path,
					StatusCode: sw.status,
					DurationMs: ms,
					Timestamp:  start,
				})
			}
		})
	}
}
