package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"largeimage/internal/logger"
	"largeimage/pkg/visualization"
)

var (
	slicesFlags  imageFlags
	slicesAxes   []string
	slicesOutDir string
	slicesFormat string
	slicesTime   int
	slicesBand   int
)

var slicesCmd = &cobra.Command{
	Use:   "slices",
	Short: "Export planes of a synthetic gradient image",
	Long: `Create an image holding a gradient over x, y and z, then save every
plane along the chosen axes as picture files, one directory per axis.

Examples:
  largeimage slices --shape 256,256,32 --out slices
  largeimage slices --shape 128,128,16,2,3 --axis z --time 1 --band 2 --format png`,
	RunE: runSlices,
}

func init() {
	slicesFlags.register(slicesCmd)
	slicesCmd.Flags().StringSliceVar(&slicesAxes, "axis", []string{"x", "y", "z"}, "axes to slice along")
	slicesCmd.Flags().StringVar(&slicesOutDir, "out", "slices", "output directory")
	slicesCmd.Flags().StringVar(&slicesFormat, "format", "jpg", "picture format (jpg|png)")
	slicesCmd.Flags().IntVar(&slicesTime, "time", 0, "time point to export")
	slicesCmd.Flags().IntVar(&slicesBand, "band", 0, "band to export")
}

func runSlices(cmd *cobra.Command, args []string) error {
	img, closeFn, err := openImage(cmd.Context(), slicesFlags)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := writeGradient(img); err != nil {
		return err
	}

	viewer := visualization.NewViewer(img)
	if err := viewer.SetVolume(slicesTime, slicesBand); err != nil {
		return err
	}
	if err := viewer.SetFormat(slicesFormat); err != nil {
		return err
	}

	for _, axis := range slicesAxes {
		dir := filepath.Join(slicesOutDir, axis)
		logger.Info("Saving slices", "axis", axis, logger.KeyPath, dir)
		if err := viewer.SaveSliceSequence(axis, dir); err != nil {
			return fmt.Errorf("failed to save %s-axis slices: %w", axis, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Slices saved to: %s\n", slicesOutDir)
	return nil
}

// writeGradient sets every pixel to (x+y+z)/(X+Y+Z-3) in index order.
func writeGradient(img pagedImage) error {
	s := img.Shape()
	den := float64(s.X + s.Y + s.Z - 3)
	if den == 0 {
		den = 1
	}

	var i int64
	for t := 0; t < s.T; t++ {
		for z := 0; z < s.Z; z++ {
			for y := 0; y < s.Y; y++ {
				for x := 0; x < s.X; x++ {
					v := float64(x+y+z) / den
					for b := 0; b < s.B; b++ {
						if err := img.SetPixelDouble(i, v); err != nil {
							return err
						}
						i++
					}
				}
			}
		}
	}
	return img.Flush()
}
