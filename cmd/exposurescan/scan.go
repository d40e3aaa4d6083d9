package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/config"
	"github.com/exposurelab/exposurescan/internal/correlate"
	"github.com/exposurelab/exposurescan/internal/database"
	"github.com/exposurelab/exposurescan/internal/imagecheck"
	"github.com/exposurelab/exposurescan/internal/log"
	"github.com/exposurelab/exposurescan/internal/model"
	"github.com/exposurelab/exposurescan/internal/pipeline"
	"github.com/exposurelab/exposurescan/internal/report"
	"github.com/exposurelab/exposurescan/internal/stream"
)

// hibpKeyEnv is the environment variable consulted for the breach lookup
// API key when neither the flag nor the config file provides one.
const hibpKeyEnv = "EXPOSURESCAN_HIBP_API_KEY"

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [input]",
		Short: "Scan an email, username, or image URL for public exposure",
		Long: `Scan estimates the public exposure of an identity input.

The input type is detected automatically:
- Email addresses are checked against known breach corpora, and the
  local part is probed across a panel of platforms
- Usernames are probed across the platform panel
- Image URLs are checked for public accessibility

The findings are combined into a weighted exposure score (0-100) with
prioritized remediation guidance. Every report ends with a transparency
section listing what was and was not checked.

Examples:
  # Scan a single email address
  exposurescan scan jane.doe@example.com

  # Scan multiple inputs concurrently
  exposurescan scan jane.doe@example.com janedoe https://example.com/photo.jpg

  # Output JSON report
  exposurescan scan --json jane.doe@example.com

  # Stream raw NDJSON progress events instead of a report
  exposurescan scan --stream janedoe

  # Use a custom configuration file
  exposurescan scan -c myconfig.yaml janedoe

Configuration file (.exposurescan) example:
  hibp_api_key: "your-api-key"
  breach_cache_hours: 24
  platforms:
    - name: github
      profile_url: "https://github.com/{username}"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

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

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans when multiple inputs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .exposurescan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("stream", false,
		"Write raw NDJSON progress events and the result to stdout instead of a report")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not store the scan result in the local database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging. The secure handler masks email
	// addresses and credential-like values before they reach the log.
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildScanConfig creates a Config from cobra command flags, the optional
// configuration file, and the environment.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
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

	// An explicit flag overrides the cache age from the config file.
	if cmd.Flags().Changed("cache-age") {
		cfg.BreachCacheAge, err = cmd.Flags().GetDuration("cache-age")
		if err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.StreamNDJSON, err = cmd.Flags().GetBool("stream")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (emails, usernames, image URLs)
	cfg.Inputs = args

	return cfg, nil
}

// applyConfigFile merges the on-disk configuration file into cfg.
// An explicitly specified file must exist; the default search locations
// are optional.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	file.Apply(cfg)

	return nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("no inputs provided (specify one or more emails, usernames, or image URLs as arguments)")
	}

	logger.Info("starting scan",
		"inputs", len(cfg.Inputs),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
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

	// NDJSON streams are per-scan; batch output would interleave envelopes
	// from concurrent scans on one stream.
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 && !cfg.StreamNDJSON {
		return runBatchScan(ctx, cfg, orchestrator, db, logger)
	}

	return runSequentialScan(ctx, cfg, orchestrator, db, logger)
}

// buildOrchestrator wires the lookup modules into a scan pipeline.
// When a database handle is provided and the cache age is positive,
// breach lookups go through the local cache first.
func buildOrchestrator(cfg *config.Config, db *database.ScanDB, logger *slog.Logger) *pipeline.Orchestrator {
	var provider breach.Provider = breach.NewHIBPClient(cfg.HIBPAPIKey)
	if db != nil && cfg.BreachCacheAge > 0 {
		provider = breach.NewCachingProvider(provider, db,
			breach.WithCacheMaxAge(cfg.BreachCacheAge),
			breach.WithCacheLogger(logger),
		)
	}
	checker := breach.NewChecker(provider, breach.WithCheckerLogger(logger))

	correlator := correlate.NewCorrelator(
		correlate.NewHTTPProber(),
		correlate.WithPanel(cfg.Platforms),
		correlate.WithProbeTimeout(cfg.ProbeTimeout),
		correlate.WithConcurrency(cfg.ProbeConcurrency),
		correlate.WithLogger(logger),
	)

	imageChecker := imagecheck.NewChecker(
		imagecheck.WithCheckTimeout(cfg.ImageTimeout),
		imagecheck.WithCheckerLogger(logger),
	)

	return pipeline.DefaultOrchestrator(checker, correlator, imageChecker,
		pipeline.WithLogger(logger),
	)
}

// runSequentialScan scans inputs one at a time. Progress goes to stderr
// so the report on stdout stays machine-readable when redirected.
func runSequentialScan(ctx context.Context, cfg *config.Config, orchestrator *pipeline.Orchestrator, db *database.ScanDB, logger *slog.Logger) error {
	for _, input := range cfg.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cfg.StreamNDJSON {
			if err := runStreamScan(ctx, orchestrator, db, input, logger); err != nil {
				logger.Error("scan failed", "error", err)
				fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", input, err)
			}
			continue
		}

		fmt.Fprintf(os.Stderr, "Scanning %s...\n", input)
		startTime := time.Now()

		result, err := orchestrator.Scan(ctx, input, progressSink(os.Stderr))
		if err != nil {
			logger.Error("scan failed", "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", input, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "Scan completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, result); err != nil {
			logger.Error("report failed", "error", err)
		}

		// Save to database if enabled
		if err := saveScanResult(ctx, db, result, logger); err != nil {
			logger.Error("failed to save scan result", "error", err)
		}
	}

	return nil
}

// runStreamScan writes NDJSON envelopes for one scan to stdout: every
// progress event as it happens, then the terminal result envelope.
func runStreamScan(ctx context.Context, orchestrator *pipeline.Orchestrator, db *database.ScanDB, input string, logger *slog.Logger) error {
	emitter := stream.NewEmitter(os.Stdout)

	result, err := orchestrator.Scan(ctx, input, emitter)
	if err != nil {
		// The terminal error event is already on the stream.
		return err
	}

	if err := emitter.EmitResult(result); err != nil {
		return err
	}

	return saveScanResult(ctx, db, result, logger)
}

// progressSink renders pipeline progress events as human-readable lines.
func progressSink(w io.Writer) pipeline.SinkFunc {
	return func(_ context.Context, event model.ChainEvent) error {
		switch event.Status {
		case model.EventStatusError:
			_, err := fmt.Fprintf(w, "  [%s] error: %s\n", event.Module, event.Message)
			return err
		case model.EventStatusProcessing, model.EventStatusComplete, model.EventStatusSkipped:
			_, err := fmt.Fprintf(w, "  [%s] %s\n", event.Module, event.Message)
			return err
		default:
			return nil
		}
	}
}

// runBatchScan scans multiple inputs concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, orchestrator *pipeline.Orchestrator, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Fprintf(os.Stderr, "Starting batch scan of %d inputs (concurrency: %d)...\n\n",
		len(cfg.Inputs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(orchestrator,
		pipeline.WithBatchConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Inputs, func(entry pipeline.BatchEntry, index int) {
		mu.Lock()
		defer mu.Unlock()

		if entry.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Scan failed: %s: %v\n",
				index+1, len(cfg.Inputs), entry.Input, entry.Err)
			return
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] Scan completed: %s\n",
			index+1, len(cfg.Inputs), entry.Input)

		// Generate and output report
		if err := outputReport(cfg, entry.Result); err != nil {
			logger.Error("report failed", "error", err)
		}

		// Save to database if enabled
		if err := saveScanResult(ctx, db, entry.Result, logger); err != nil {
			logger.Error("failed to save scan result", "error", err)
		}
	})

	fmt.Fprintf(os.Stderr, "\nBatch scan completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return err
}

// outputReport outputs the scan result in the requested format.
func outputReport(cfg *config.Config, result *model.ScanResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry breach details for the scanned identity, so the
		// file is readable by the owner only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(result)
	return err
}

// saveScanResult saves the scan result to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanResult(ctx context.Context, db *database.ScanDB, result *model.ScanResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveScanResult(ctx, result); err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	logger.Info("scan result saved", "scan_id", result.ID)
	return nil
}
