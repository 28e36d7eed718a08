package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/db"
	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/reveal"
	"github.com/danielhkuo/quickly-spin/router"
	"github.com/danielhkuo/quickly-spin/wheel"
)

func main() {
	var err error

	// .env is optional; real environment variables win
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Live reveal plumbing
	hub := live.NewHub()
	director := live.NewDirector(hub, reveal.Sequencer{
		SpinDuration: cfg.SpinDuration,
		Pause:        cfg.RevealPause,
	}, cfg.RaffleTTL)

	// Create router
	mux := router.NewRouter(dbConn, cfg, router.Services{
		Engine:   wheel.NewEngine(wheel.NewRNG()),
		Hub:      hub,
		Director: director,
	})

	// Create server
	server := http.Server{
		Handler: router.Wrap(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdleRaffles(ctx, dbConn, cfg.RaffleTTL)

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		director.Close()
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// setupLogger installs a text handler for terminals and JSON otherwise.
func setupLogger(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// purgeIdleRaffles deletes raffles untouched for ttl until ctx ends.
func purgeIdleRaffles(ctx context.Context, conn *sql.DB, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	interval := max(ttl/4, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.UTC().Add(-ttl)
			n, err := db.PurgeIdleRaffles(ctx, conn, cutoff)
			if err != nil {
				slog.Error("failed to purge idle raffles", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged idle raffles", "count", n, "idle_since", humanize.Time(cutoff))
			}
		}
	}
}
