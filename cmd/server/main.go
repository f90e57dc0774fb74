package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/email"
	web "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/http/perf"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage"
	accountStorePkg "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage/account"
	documentStorePkg "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage/document"
	outboxStorePkg "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage/outbox"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/orchestrators"
	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set environment variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	configureLogging()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("JUDOCRM_DB", "judocrm.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStorePkg.NewSQLiteStore(timedDB)
	docStore := documentStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		OutboxStore:  outboxStorePkg.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("JUDOCRM_ADMIN_EMAIL", "admin@judoclub.example")
	adminPassword := envOrDefault("JUDOCRM_ADMIN_PASSWORD", "change me before launch")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed the shared document with default club settings on first start
	if err := orchestrators.ExecuteSeedDocument(ctx, orchestrators.SeedDocumentDeps{DocumentStore: docStore}); err != nil {
		log.Fatalf("failed to seed document: %v", err)
	}

	// The commit pipeline starts from the persisted document revision
	initial, err := docStore.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load document: %v", err)
	}
	pipeline := docsync.New(docStore, initial)

	// Configure email sender
	resendKey := os.Getenv("JUDOCRM_RESEND_KEY")
	emailFrom := envOrDefault("JUDOCRM_RESEND_FROM", "Judo Club <noreply@judoclub.example>")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("JUDOCRM_ENV") == "production" {
			log.Println("WARNING: JUDOCRM_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set JUDOCRM_RESEND_KEY for real delivery)")
		}
	}
	web.NotifyEmail = os.Getenv("JUDOCRM_NOTIFY_EMAIL")

	// Start outbox background worker for retrying queued notifications
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	executors := map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: emailPkg.NewExecutor(sender),
	}
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, executors)
	go processor.RunOutboxLoop(workerCtx, time.Minute)

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, pipeline, collector)

	addr := envOrDefault("JUDOCRM_ADDR", ":8080")
	log.Printf("Judo CRM %s starting on %s (env=%s)", version, addr, envOrDefault("JUDOCRM_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// configureLogging sets the default slog level from JUDOCRM_LOG_LEVEL.
func configureLogging() {
	level := slog.LevelInfo
	switch envOrDefault("JUDOCRM_LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
