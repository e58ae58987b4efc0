// Package commands implements the largeimage command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"largeimage/internal/bytesize"
	"largeimage/internal/logger"
	"largeimage/pkg/config"
	"largeimage/pkg/metrics"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	// Global flags.
	cfgFile  string
	logLevel string
	budget   bytesize.ByteSize

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "largeimage",
	Short: "Paged storage for images larger than memory",
	Long: `largeimage stores five-dimensional images (x, y, z, t, band) of flags,
bytes, ints or doubles in fixed-size units, keeping one unit in memory and
the rest in a pluggable block store (memory, fs, mmap, badger, s3).

Use "largeimage [command] --help" for more information about a command.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command. It is called by main.main.
func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", Version, Commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "largeimage.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Var(&budget, "budget", "override memory.budget (e.g. 64Mi)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(slicesCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig reads the config file, applies flag overrides and sets up
// logging and metrics.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("budget") {
		loaded.Memory.Budget = budget
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	if err := logger.Init(loaded.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if loaded.Metrics.Enabled {
		metrics.InitRegistry()
	}

	cfg = loaded
	return nil
}

// serveMetrics exposes /metrics until ctx is done. It is a no-op when metrics
// are disabled.
func serveMetrics(ctx context.Context) {
	if !metrics.IsEnabled() {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics endpoint listening", "address", cfg.Metrics.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logger.Err(err)...)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
