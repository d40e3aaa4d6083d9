package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/config"
	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/database"
	"github.com/exposurelab/exposurescan/internal/imagecheck"
	"github.com/exposurelab/exposurescan/internal/limiter"
	"github.com/exposurelab/exposurescan/internal/log"
	"github.com/exposurelab/exposurescan/internal/server"
)

const (
	// shutdownTimeout bounds the drain of in-flight scans on shutdown.
	shutdownTimeout = 10 * time.Second

	// readHeaderTimeout bounds how long a client may take to send request
	// headers. Scan responses stream for much longer; only the header
	// phase is limited.
	readHeaderTimeout = 5 * time.Second
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the exposure scan HTTP server",
		Long: `Serve starts an HTTP server exposing the scan pipeline.

Endpoints:
  POST /api/scan        Run a scan; progress events and the result are
                        streamed as NDJSON
  GET  /api/scans       List stored scans (newest first)
  GET  /api/scans/{id}  Fetch one stored scan result
  GET  /api/stats       Server statistics
  GET  /healthz         Health check

Scans are rate limited per client address. Results are stored in the
local database unless --no-save is given; without a database the
history endpoints respond with 503.

Examples:
  # Listen on the default address
  exposurescan serve

  # Custom listen address and rate limit
  exposurescan serve --addr :9090 --rate-limit 30 --rate-window 1m

  # Run without persisting scan results
  exposurescan serve --no-save`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	// Listener flags
	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address")
	cmd.Flags().Int("rate-limit", limiter.DefaultLimit,
		"Scans each client may start per rate window")
	cmd.Flags().Duration("rate-window", limiter.DefaultWindow,
		"Sliding window for the scan rate limit")

	// Lookup provider flags
	cmd.Flags().StringP("hibp-key", "k", "",
		"Breach lookup API key (falls back to "+hibpKeyEnv+" or the config file)")
	cmd.Flags().Duration("cache-age", breach.DefaultCacheMaxAge,
		"Maximum age of cached breach lookups (0 disables the cache)")

	// Probe behavior flags
	cmd.Flags().DurationP("probe-timeout", "t", correlate.DefaultProbeTimeout,
		"Timeout for each platform probe")
	cmd.Flags().Int("concurrency", correlate.DefaultConcurrency,
		"Maximum concurrent platform probes per scan")
	cmd.Flags().Duration("image-timeout", imagecheck.DefaultCheckTimeout,
		"Timeout for the image accessibility check")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .exposurescan in current or home directory)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not store scan results; disables the history endpoints")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	return runServe(context.Background(), cfg, logger)
}

// buildServeConfig creates a Config from serve command flags, the optional
// configuration file, and the environment.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ProbeTimeout, err = cmd.Flags().GetDuration("probe-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ProbeConcurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.ImageTimeout, err = cmd.Flags().GetDuration("image-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	// Explicit flags beat the config file for values both can set.
	if cmd.Flags().Changed("addr") {
		cfg.ServerAddr, err = cmd.Flags().GetString("addr")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit, err = cmd.Flags().GetInt("rate-limit")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("rate-window") {
		cfg.RateWindow, err = cmd.Flags().GetDuration("rate-window")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cache-age") {
		cfg.BreachCacheAge, err = cmd.Flags().GetDuration("cache-age")
		if err != nil {
			return nil, err
		}
	}

	// The flag beats the config file; the environment fills the gap when
	// neither provides a key.
	apiKey, err := cmd.Flags().GetString("hibp-key")
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.HIBPAPIKey = apiKey
	} else if cfg.HIBPAPIKey == "" {
		cfg.HIBPAPIKey = os.Getenv(hibpKeyEnv)
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runServe runs the HTTP server until a shutdown signal arrives or the
// context is cancelled, then drains in-flight requests.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	orchestrator := buildOrchestrator(cfg, db, logger)

	lim := limiter.New(cfg.RateLimit, cfg.RateWindow)
	defer lim.Close()

	opts := []server.Option{
		server.WithServerLogger(logger),
		server.WithVersion(getVersion()),
	}
	if db != nil {
		opts = append(opts, server.WithDB(db))
	}
	srv := server.New(orchestrator, lim, opts...)

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	logger.Info("server listening",
		"addr", cfg.ServerAddr,
		"rateLimit", cfg.RateLimit,
		"rateWindow", cfg.RateWindow,
		"persistence", db != nil,
	)
	fmt.Fprintf(os.Stderr, "exposurescan server listening on %s\n", cfg.ServerAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
