package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgshrink/internal/config"
	"github.com/AnyUserName/imgshrink/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a compress run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// resolveReportPath accepts a report file or the output directory holding
// one under the default name (plain or .zst).
func resolveReportPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	name := config.DefaultConfig().Output.Report
	for _, candidate := range []string{name, name + report.CompressedExt} {
		p := filepath.Join(path, candidate)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s in %s", name, path)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := resolveReportPath(args[0])
	if err != nil {
		return err
	}

	r, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Preset:           %s\n", r.Preset)
	if r.RunInfo != nil {
		fmt.Printf("  Workers:          %d\n", r.RunInfo.Workers)
		fmt.Printf("  Canvas ceiling:   %d × %d px\n", r.RunInfo.MaxCanvasEdge, r.RunInfo.MaxCanvasEdge)
		if r.RunInfo.MaxSizeMB > 0 {
			fmt.Printf("  Budget:           %.2f MB, %d iterations\n", r.RunInfo.MaxSizeMB, r.RunInfo.MaxIteration)
		} else {
			fmt.Printf("  Budget:           unlimited, %d iterations\n", r.RunInfo.MaxIteration)
		}
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Total images:     %d\n", s.TotalEntries)
	fmt.Printf("  Converged:        %d\n", s.Converged)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))

	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, e := range r.Entries {
		fs := formatStats[e.Output.Format]
		fs.count++
		fs.bytes += e.Output.Size
		formatStats[e.Output.Format] = fs
	}

	fmt.Println("  Format breakdown:")
	for _, f := range []string{"jpeg", "png"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Println()

	// Iteration histogram.
	iterStats := map[int]int{}
	for _, e := range r.Entries {
		iterStats[e.Output.Iterations]++
	}
	var iters []int
	for n := range iterStats {
		iters = append(iters, n)
	}
	sort.Ints(iters)
	fmt.Println("  Iterations:")
	for _, n := range iters {
		fmt.Printf("    %3d  %4d images\n", n, iterStats[n])
	}

	// Warnings.
	var warnings []string
	for key, e := range r.Entries {
		if !e.Output.Converged {
			warnings = append(warnings, fmt.Sprintf("%q kept a best-effort result (%s)", key, formatBytes(e.Output.Size)))
		}
		if e.Source.Orientation > 1 {
			warnings = append(warnings, fmt.Sprintf("%q was rotated from orientation %d", key, e.Source.Orientation))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Notes (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
