package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	infoFlags  imageFlags
	infoOutput string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the paging geometry of an image",
	Long: `Show how an image of the given shape and kind is split into units
under the configured memory budget. No pixels are written.

Examples:
  # Geometry of a 2000x2000x2x2x1000 byte image with a 1 MiB budget
  largeimage info --shape 2000,2000,2,2,1000 --budget 1Mi

  # One-line summary
  largeimage info --shape 4096,4096 --kind double -o text`,
	RunE: runInfo,
}

func init() {
	infoFlags.register(infoCmd)
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "yaml", "Output format (yaml|text)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	img, closeFn, err := openImage(cmd.Context(), infoFlags)
	if err != nil {
		return err
	}
	defer closeFn()

	info := img.Info()
	switch infoOutput {
	case "text":
		fmt.Fprintln(cmd.OutOrStdout(), info)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (must be yaml or text)", infoOutput)
	}
}
