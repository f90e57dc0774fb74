package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http/middleware"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http/perf"
	accountStore "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage/account"
	outboxStore "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage/outbox"
	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
)

// Stores holds all storage dependencies. The shared dataset itself lives in
// the sync pipeline, not here; only side tables are accessed directly.
type Stores struct {
	AccountStore accountStore.Store
	OutboxStore  outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from JUDOCRM_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("JUDOCRM_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("JUDOCRM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("JUDOCRM_ENV") == "production" {
		log.Fatal("JUDOCRM_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set JUDOCRM_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global commit pipeline instance (set by NewMux)
var documents *docsync.Pipeline

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NotifyEmail is the address conversion notifications are queued for.
// Empty disables the notification.
var NotifyEmail string

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, pipeline *docsync.Pipeline, collector *perf.Collector) http.Handler {
	stores = s
	documents = pipeline
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("JUDOCRM_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
