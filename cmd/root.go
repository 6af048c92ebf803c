package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/imgshrink/internal/config"
	"github.com/AnyUserName/imgshrink/internal/logger"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
	log        = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "imgshrink",
	Short: "Shrink images to a byte budget",
	Long: `imgshrink re-encodes images until they fit a size budget.

Each image is clamped to the canvas ceiling, bounded to a maximum edge,
rotated upright from its EXIF orientation and encoded. When the result is
too large, resolution and quality are traded down for a bounded number of
iterations and the best result is kept.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		log = logger.New("imgshrink", verbose)
	},
	SilenceUsage: true,
}

func Execute() error {
	defer func() { _ = log.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgshrink %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadConfig returns the --config file, or the defaults without one.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log.Debug("config loaded", zap.String("path", configPath))
	return cfg, nil
}
