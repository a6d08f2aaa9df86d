package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/studioanalytics/internal/calendars"
	"github.com/studioanalytics/internal/config"
	"github.com/studioanalytics/internal/datasets"
	httpx "github.com/studioanalytics/internal/http"
	"github.com/studioanalytics/internal/ingest"
	"github.com/studioanalytics/internal/keys"
	"github.com/studioanalytics/internal/pivots"
	"github.com/studioanalytics/internal/telegram"
	"github.com/studioanalytics/internal/uploads"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:], ".env")
	if err != nil {
		log.Fatalf("[ERROR] config: %s", err)
	}

	encryptionKey, err := keys.ParseKey([]byte(cfg.EncryptionKey))
	if err != nil {
		log.Fatalf("[ERROR] encryption-key: %s", err)
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("[ERROR] timezone: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})
	logger := slog.New(handler)

	db, err := badger.Open(badger.DefaultOptions(cfg.DatabasePath).WithLogger(nil))
	if err != nil {
		log.Fatalf("[ERROR] db: %s", err)
	}
	defer db.Close()

	state := datasets.NewState(logger, datasets.NewStore(db, encryptionKey))
	if err := state.Load(ctx); err != nil {
		log.Fatalf("[ERROR] load dataset: %s", err)
	}
	ingestService := ingest.NewService(logger, state, uploads.NewStore(db), cfg.ArchiveMarker)
	if err := ingestService.Init(ctx); err != nil {
		log.Fatalf("[ERROR] init ingestion: %s", err)
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(logger, telegram.NewStore(db), state, cfg.TelegramToken)
		if err != nil {
			log.Fatalf("[ERROR] telegram: %s", err)
		}
		logger = slog.New(telegram.NewSlogHandler(bot, handler))
		ingestService.AddNotifier(bot)
		go func() {
			if err := bot.Listen(ctx); err != nil {
				logger.ErrorContext(ctx, "telegram listen", "error", err)
			}
		}()
	}

	calendarsService := calendars.NewService(calendars.NewStore(db), state, location)
	pivotsService := pivots.NewService(pivots.NewStore(db), state)

	httpServer := http.Server{
		Handler: httpx.Handler(
			logger,
			state,
			ingestService,
			calendarsService,
			pivotsService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Wait for shut down in a separate goroutine.
	errCh := make(chan error)
	go func() {
		shutdownCh := make(chan os.Signal, 1)
		signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdownCh

		log.Printf("[INFO] received %s, shutting down", sig)
		cancel()

		shutdownTimeout := 15 * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errCh <- httpServer.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Fatalf("[ERROR] tcp: %s", err)
	}
	log.Printf("[INFO] listening on %s", ln.Addr())

	if err := httpServer.Serve(ln); err != http.ErrServerClosed {
		log.Printf("[ERROR] http serve: %s", err)
	}

	if err := <-errCh; err != nil {
		log.Printf("[ERROR] error during shutdown: %s", err)
	}

	log.Printf("[INFO] application stopped")
}
