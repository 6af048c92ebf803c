package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/imgshrink/internal/canvas"
	"github.com/AnyUserName/imgshrink/internal/compress"
	"github.com/AnyUserName/imgshrink/internal/preset"
	"github.com/AnyUserName/imgshrink/internal/storage"
)

type Config struct {
	Preset      string            `yaml:"preset"`      // Named option bundle
	Workers     int               `yaml:"workers"`     // Parallel sources (0 = NumCPU)
	Compression CompressionConfig `yaml:"compression"` // Overrides on top of the preset
	Canvas      CanvasConfig      `yaml:"canvas"`
	Encoder     EncoderConfig     `yaml:"encoder"`
	Output      OutputConfig      `yaml:"output"`
}

// Holds per-image overrides. Zero values keep the preset's setting, except
// max_iteration where only an absent key does.
type CompressionConfig struct {
	MaxSizeMB            float64 `yaml:"max_size_mb"`
	MaxWidthOrHeight     float64 `yaml:"max_width_or_height"`
	MaxIteration         *int    `yaml:"max_iteration"`   // 0 = first pass only
	FileType             string  `yaml:"file_type"`       // png or jpeg
	InitialQuality       float64 `yaml:"initial_quality"` // (0, 1]
	AlwaysKeepResolution bool    `yaml:"always_keep_resolution"`
}

// Holds drawing surface settings.
type CanvasConfig struct {
	MaxEdge          int    `yaml:"max_edge"`           // Area ceiling is max_edge²
	OffscreenMaxEdge int    `yaml:"offscreen_max_edge"` // Larger surfaces go to the node fallback (0 = unlimited)
	Selector         string `yaml:"selector"`           // Node the fallback draws through
	AttachNode       bool   `yaml:"attach_node"`        // Make the fallback node available
}

// Holds encoder backend choices.
type EncoderConfig struct {
	JPEG string `yaml:"jpeg"` // std or jpegli
}

// Holds where results go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Report      string `yaml:"report"`       // Report file name; .zst compresses it
	QuotaBytes  int64  `yaml:"quota_bytes"`  // 0 = unlimited
	KeepPattern string `yaml:"keep_pattern"` // Files eviction never removes
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Preset: preset.DefaultName,
		Canvas: CanvasConfig{
			MaxEdge:          canvas.DefaultMaxEdge,
			OffscreenMaxEdge: 16384,
			Selector:         canvas.DefaultSelector,
			AttachNode:       true,
		},
		Encoder: EncoderConfig{JPEG: "std"},
		Output: OutputConfig{
			Dir:         "./imgshrink_out",
			Report:      "imgshrink.report.json",
			KeepPattern: storage.DefaultKeepPattern,
		},
	}
}

// Loads configuration from a YAML file. Keys absent from the file keep
// their defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate reports the first invalid setting.
func Validate(config *Config) error {
	if config.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	if err := validateCompression(&config.Compression); err != nil {
		return fmt.Errorf("invalid compression configuration: %w", err)
	}

	if config.Canvas.MaxEdge <= 0 {
		return fmt.Errorf("canvas.max_edge must be greater than 0")
	}

	if config.Canvas.OffscreenMaxEdge < 0 {
		return fmt.Errorf("canvas.offscreen_max_edge must not be negative")
	}

	if b := config.Encoder.JPEG; b != "" && b != "std" && b != "jpegli" {
		return fmt.Errorf("encoder.jpeg must be std or jpegli, got %q", b)
	}

	if config.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	if config.Output.QuotaBytes < 0 {
		return fmt.Errorf("output.quota_bytes must not be negative")
	}

	if _, err := filepath.Match(config.Output.KeepPattern, ""); err != nil {
		return fmt.Errorf("output.keep_pattern: %w", err)
	}

	return nil
}

func validateCompression(config *CompressionConfig) error {
	if config.MaxSizeMB < 0 {
		return fmt.Errorf("max_size_mb must not be negative")
	}

	if config.MaxWidthOrHeight < 0 {
		return fmt.Errorf("max_width_or_height must not be negative")
	}

	if config.MaxIteration != nil && *config.MaxIteration < 0 {
		return fmt.Errorf("max_iteration must not be negative")
	}

	if config.InitialQuality < 0 || config.InitialQuality > 1 {
		return fmt.Errorf("initial_quality must be between 0 and 1")
	}

	switch strings.ToLower(config.FileType) {
	case "", "png", "jpeg", "jpg", "image/png", "image/jpeg":
	default:
		return fmt.Errorf("file_type must be png or jpeg, got %q", config.FileType)
	}

	return nil
}

// Options resolves the preset and applies the overrides on top of it.
func (c *Config) Options() compress.Options {
	o := preset.Get(c.Preset).Options()
	cc := c.Compression
	if cc.MaxSizeMB > 0 {
		o.MaxSizeMB = cc.MaxSizeMB
	}
	if cc.MaxWidthOrHeight > 0 {
		o.MaxWidthOrHeight = cc.MaxWidthOrHeight
	}
	if cc.MaxIteration != nil {
		o.MaxIteration = *cc.MaxIteration
	}
	if cc.FileType != "" {
		o.FileType = cc.FileType
	}
	if cc.InitialQuality > 0 {
		o.InitialQuality = cc.InitialQuality
	}
	if cc.AlwaysKeepResolution {
		o.AlwaysKeepResolution = true
	}
	return o
}
