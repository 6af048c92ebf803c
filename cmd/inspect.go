package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgshrink/internal/canvas"
	"github.com/AnyUserName/imgshrink/internal/encoder"
	"github.com/AnyUserName/imgshrink/internal/host"
	"github.com/AnyUserName/imgshrink/internal/resize"
)

var (
	inspectMaxEdge   float64
	inspectCanvasMax int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show what compress would start from for one image",
	Long: `Prints the image's header information and the working sizes the
compressor derives from it: the canvas-clamped size, the bounded size and
the upright size after applying the orientation tag.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Float64Var(&inspectMaxEdge, "max-width-or-height", 0, "bound on the longer edge (0 = none)")
	inspectCmd.Flags().IntVar(&inspectCanvasMax, "canvas-max-edge", 0, "canvas ceiling edge (0 = config)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ceiling := cfg.Canvas.MaxEdge
	if cmd.Flags().Changed("canvas-max-edge") {
		ceiling = inspectCanvasMax
	}

	files := host.NewFiles()
	info, err := files.ImageInfo(args[0])
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	size, err := files.FileSize(args[0])
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	cw, ch := resize.Clamp(float64(info.Width), float64(info.Height), ceiling)
	bw, bh, _ := resize.BoundedSize(cw, ch, inspectMaxEdge)
	ow, oh := info.Orientation.Size(canvas.Dim(bw), canvas.Dim(bh))

	fmt.Println()
	fmt.Printf("  File:         %s (%s)\n", args[0], formatBytes(size))
	fmt.Printf("  Type:         %s → encodes as %s\n", info.MimeType, encoder.ResolveFormat(info.MimeType))
	fmt.Printf("  Dimensions:   %d × %d\n", info.Width, info.Height)
	fmt.Printf("  Orientation:  %d\n", info.Orientation)
	fmt.Printf("  Clamped:      %d × %d (ceiling %d²)\n", canvas.Dim(cw), canvas.Dim(ch), ceiling)
	fmt.Printf("  Bounded:      %d × %d\n", canvas.Dim(bw), canvas.Dim(bh))
	fmt.Printf("  Upright:      %d × %d\n", ow, oh)
	fmt.Println()
	return nil
}
