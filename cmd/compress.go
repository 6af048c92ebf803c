package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/imgshrink/internal/canvas"
	"github.com/AnyUserName/imgshrink/internal/compress"
	"github.com/AnyUserName/imgshrink/internal/config"
	"github.com/AnyUserName/imgshrink/internal/encoder"
	"github.com/AnyUserName/imgshrink/internal/host"
	"github.com/AnyUserName/imgshrink/internal/pipeline"
	"github.com/AnyUserName/imgshrink/internal/report"
	"github.com/AnyUserName/imgshrink/internal/storage"
)

var (
	compressOutDir      string
	compressPreset      string
	compressWorkers     int
	compressMaxSizeMB   float64
	compressMaxEdge     float64
	compressMaxIter     int
	compressFileType    string
	compressQuality     float64
	compressKeepRes     bool
	compressReport      string
	compressQuotaBytes  int64
	compressCanvasLimit int
	compressJPEGBackend string
)

var compressCmd = &cobra.Command{
	Use:   "compress <file_or_dir>...",
	Short: "Compress images to a size budget and write a report",
	Long: `Compresses every image given (png, jpg, jpeg, webp, gif, bmp, tiff;
directories are walked) and writes the results plus a JSON report into the
output directory. Output files get random names; the report maps each
source to its output. A report name ending in .zst is zstd-compressed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompress,
}

func init() {
	f := compressCmd.Flags()
	f.StringVarP(&compressOutDir, "out", "o", "", "output directory (default from config)")
	f.StringVarP(&compressPreset, "preset", "p", "", "option preset: default, wechat, thumbnail, keep-resolution")
	f.IntVarP(&compressWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.Float64Var(&compressMaxSizeMB, "max-size-mb", 0, "byte budget in MiB (0 = preset)")
	f.Float64Var(&compressMaxEdge, "max-width-or-height", 0, "bound on the longer edge (0 = preset)")
	f.IntVar(&compressMaxIter, "max-iteration", 0, "reduction iterations (0 = first pass only; default from preset)")
	f.StringVarP(&compressFileType, "type", "t", "", "output type: png or jpeg (default: source type)")
	f.Float64VarP(&compressQuality, "quality", "q", 0, "initial quality in (0, 1] (0 = preset)")
	f.BoolVar(&compressKeepRes, "keep-resolution", false, "never shrink, only lower quality")
	f.StringVar(&compressReport, "report", "", "report file name inside the output directory")
	f.Int64Var(&compressQuotaBytes, "quota", 0, "output directory quota in bytes (0 = unlimited)")
	f.IntVar(&compressCanvasLimit, "canvas-max-edge", 0, "canvas ceiling edge (0 = config)")
	f.StringVar(&compressJPEGBackend, "jpeg-encoder", "", "jpeg backend: std or jpegli (default from config)")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCompressFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	absOutput, err := filepath.Abs(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	store, err := storage.NewLocal(absOutput,
		storage.WithQuota(cfg.Output.QuotaBytes),
		storage.WithKeepPattern(cfg.Output.KeepPattern),
		storage.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	nodes := canvas.NewNodes(cfg.Canvas.Selector)
	if cfg.Canvas.AttachNode {
		nodes.Attach(cfg.Canvas.Selector)
	}
	encoders := encoder.NewRegistry()
	encoders.Register(encoder.NewJPEGBackend(cfg.Encoder.JPEG))
	log.Debug("encoders", zap.String("registry", encoders.String()), zap.String("jpeg", cfg.Encoder.JPEG))

	compressor := compress.New(host.NewFiles(),
		compress.WithEncoders(encoders),
		compress.WithAllocator(canvas.WithFallback(canvas.NewOffscreen(cfg.Canvas.OffscreenMaxEdge), nodes)),
		compress.WithStore(store),
		compress.WithLogger(log),
		compress.WithMaxCanvasEdge(cfg.Canvas.MaxEdge),
	)

	opts := cfg.Options()
	log.Debug("compress",
		zap.String("output", absOutput),
		zap.String("preset", cfg.Preset),
		zap.Float64("max_size_mb", opts.MaxSizeMB),
		zap.Float64("max_width_or_height", opts.MaxWidthOrHeight),
		zap.Int("max_iteration", opts.MaxIteration),
	)

	p := pipeline.New(pipeline.Config{
		Inputs:    args,
		OutputDir: absOutput,
		Preset:    cfg.Preset,
		Options:   opts,
		Workers:   cfg.Workers,
		OnProgress: func(key string, percent int) {
			if percent == 100 {
				log.Debug("progress", zap.String("key", key), zap.Int("percent", percent))
			}
		},
	}, compressor, log)

	rep, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, cfg.Output.Report)
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printCompressReport(rep, reportPath, time.Since(start))
	return nil
}

func applyCompressFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Output.Dir = compressOutDir
	}
	if f.Changed("preset") {
		cfg.Preset = compressPreset
	}
	if f.Changed("workers") {
		cfg.Workers = compressWorkers
	}
	if f.Changed("max-size-mb") {
		cfg.Compression.MaxSizeMB = compressMaxSizeMB
	}
	if f.Changed("max-width-or-height") {
		cfg.Compression.MaxWidthOrHeight = compressMaxEdge
	}
	if f.Changed("max-iteration") {
		cfg.Compression.MaxIteration = &compressMaxIter
	}
	if f.Changed("type") {
		cfg.Compression.FileType = compressFileType
	}
	if f.Changed("quality") {
		cfg.Compression.InitialQuality = compressQuality
	}
	if f.Changed("keep-resolution") {
		cfg.Compression.AlwaysKeepResolution = compressKeepRes
	}
	if f.Changed("report") {
		cfg.Output.Report = compressReport
	}
	if f.Changed("quota") {
		cfg.Output.QuotaBytes = compressQuotaBytes
	}
	if f.Changed("canvas-max-edge") {
		cfg.Canvas.MaxEdge = compressCanvasLimit
	}
	if f.Changed("jpeg-encoder") {
		cfg.Encoder.JPEG = compressJPEGBackend
	}
}

func printCompressReport(r *report.Report, reportPath string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            imgshrink compress complete           ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := r.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Images:      %d\n", stats.TotalEntries)
	fmt.Printf("  Converged:   %d\n", stats.Converged)
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", stats.Failed)
	}
	fmt.Printf("  Iterations:  %d\n", stats.Iterations)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	// Top 10 heaviest sources.
	if len(r.Entries) > 0 {
		type entrySize struct {
			key        string
			inputSize  int64
			outputSize int64
			converged  bool
		}
		var items []entrySize
		for key, e := range r.Entries {
			items = append(items, entrySize{key, e.Source.Size, e.Output.Size, e.Output.Converged})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d heaviest (original → compressed):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			mark := ""
			if !it.converged {
				mark = "  best effort"
			}
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)%s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				saved,
				mark,
			)
		}
		fmt.Println()
	}

	if info, err := os.Stat(reportPath); err == nil {
		fmt.Printf("  Report:      %s (%s)\n", filepath.Base(reportPath), formatBytes(info.Size()))
		fmt.Println()
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
