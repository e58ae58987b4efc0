package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"largeimage/internal/logger"
)

var (
	fillFlags   imageFlags
	fillValue   float64
	fillWorkers int
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill an image, verify it and print statistics",
	Long: `Create an image, fill every pixel with a value given in the double view
(0..1), then scan all units in parallel to verify the fill and print summary
statistics. Useful for exercising a storage backend with a realistic load.

Examples:
  largeimage fill --shape 1024,1024,64 --kind int --value 0.25
  largeimage fill --shape 512,512,8,1,3 --workers 4 --config fs.yaml`,
	RunE: runFill,
}

func init() {
	fillFlags.register(fillCmd)
	fillCmd.Flags().Float64Var(&fillValue, "value", 1, "fill value in the double view")
	fillCmd.Flags().IntVar(&fillWorkers, "workers", 0, "verification workers (default: processing.numCores)")
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	serveMetrics(ctx)

	img, closeFn, err := openImage(ctx, fillFlags)
	if err != nil {
		return err
	}
	defer closeFn()

	info := img.Info()
	logger.Info("Filling image",
		logger.KeyImage, info.Key,
		logger.KeyKind, info.Kind,
		logger.KeyShape, info.Shape.String(),
		logger.KeyUnits, info.UnitCount,
		logger.KeyBackend, cfg.Storage.Backend)

	start := time.Now()
	if err := img.FillDouble(fillValue); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	if err := img.Flush(); err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}
	logger.Info("Fill complete", logger.KeyOperation, "fill", logger.KeyDurationMs, logger.Duration(start))

	workers := fillWorkers
	if workers == 0 {
		workers = cfg.Processing.NumCores
	}

	start = time.Now()
	bad, err := countMismatches(img, workers, fillValue)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	logger.Info("Verify complete",
		logger.KeyOperation, "verify",
		logger.KeyWorkers, workers,
		logger.KeyDurationMs, logger.Duration(start))
	if bad > 0 {
		return fmt.Errorf("verify failed: %d of %d pixels differ", bad, info.Total)
	}

	stats, err := img.Statistics()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, info)
	fmt.Fprintf(out, "count=%d mean=%.6f stddev=%.6f min=%.6f max=%.6f\n",
		stats.Count, stats.Mean, stats.StdDev, stats.Min, stats.Max)
	return nil
}
