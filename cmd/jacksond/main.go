// ABOUTME: Entry point for the jacksond admin service
// ABOUTME: Wires config, record store, controllers and the admin HTTP API

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/brandlive1941/jackson/internal/admin"
	"github.com/brandlive1941/jackson/internal/audit"
	"github.com/brandlive1941/jackson/internal/auth"
	"github.com/brandlive1941/jackson/internal/chat"
	"github.com/brandlive1941/jackson/internal/config"
	"github.com/brandlive1941/jackson/internal/connection"
	"github.com/brandlive1941/jackson/internal/dsync"
	"github.com/brandlive1941/jackson/internal/license"
	"github.com/brandlive1941/jackson/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
   _            _
  (_) __ _  ___| | _____  ___  _ __
  | |/ _' |/ __| |/ / __|/ _ \| '_ \
  | | (_| | (__|   <\__ \ (_) | | | |
 _/ |\__,_|\___|_|\_\___/\___/|_| |_|
|__/
`

// getConfigPath returns the path to the jacksond config file.
// Priority: JACKSON_CONFIG env var > ./jacksond.yaml
func getConfigPath() string {
	if envPath := os.Getenv("JACKSON_CONFIG"); envPath != "" {
		return envPath
	}
	return "jacksond.yaml"
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    > ")
	fmt.Printf("Config: %s\n", configPath)
	green.Print("    > ")
	fmt.Printf("HTTP:   %s\n", cfg.Server.HTTPAddr)
	fmt.Println()

	logger.Info("starting jacksond",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	recordStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer recordStore.Close()

	var emitter audit.Emitter = audit.NopEmitter{}
	var dispatcher *audit.Dispatcher
	if cfg.Audit.Enabled {
		dispatcher = audit.NewDispatcher(cfg.Audit.Buffer, logger, audit.NewLogEmitter(logger))
		emitter = dispatcher
		defer dispatcher.Close()
	}

	checker := license.NewStaticChecker(cfg.License.ValidKeys...)

	chatController := chat.New(chat.Params{
		Conversations: store.NewCollection(recordStore, "llm:conversation"),
		Chats:         store.NewCollection(recordStore, "llm:chat"),
		Licenses:      checker,
		LicenseKey:    cfg.License.Key,
		Audit:         emitter,
		Logger:        logger,
	})

	dsyncController := dsync.New(dsync.Params{
		Directories: store.NewCollection(recordStore, "dsync:config"),
		Licenses:    checker,
		LicenseKey:  cfg.License.Key,
		Audit:       emitter,
		Logger:      logger,
	})

	connectionController := connection.New(connection.Params{
		Connections: store.NewCollection(recordStore, "saml:config"),
		Licenses:    checker,
		LicenseKey:  cfg.License.Key,
		Audit:       emitter,
		Logger:      logger,
	})

	adminMux := http.NewServeMux()
	admin.New(dsyncController, connectionController, chatController, logger).Register(adminMux)

	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))

	// Admin routes sit behind bearer auth; health does not
	mux := http.NewServeMux()
	mux.Handle("/api/admin/", auth.Middleware(verifier, logger)(adminMux))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}
