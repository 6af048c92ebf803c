package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgshrink.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
preset: wechat
compression:
  max_size_mb: 0.5
output:
  quota_bytes: 1048576
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Canvas.MaxEdge != 4096 {
		t.Errorf("max_edge: got %d, want default 4096", cfg.Canvas.MaxEdge)
	}
	if cfg.Output.QuotaBytes != 1<<20 {
		t.Errorf("quota: got %d", cfg.Output.QuotaBytes)
	}

	o := cfg.Options()
	if o.MaxSizeMB != 0.5 {
		t.Errorf("override: got %v, want 0.5", o.MaxSizeMB)
	}
	if o.MaxWidthOrHeight != 1920 || o.FileType != "jpeg" {
		t.Errorf("preset values lost: %+v", o)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"quality":   "compression:\n  initial_quality: 1.5\n",
		"file type": "compression:\n  file_type: gif\n",
		"edge":      "canvas:\n  max_edge: 0\n",
		"pattern":   "output:\n  keep_pattern: \"[\"\n",
		"workers":   "workers: -1\n",
		"iteration": "compression:\n  max_iteration: -1\n",
		"encoder":   "encoder:\n  jpeg: mozjpeg\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected error", name)
		} else if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("%s: got %v", name, err)
		}
	}
}

func TestMaxIterationOverride(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "preset: thumbnail\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Options().MaxIteration; got != 15 {
		t.Errorf("absent key: got %d, want preset 15", got)
	}

	cfg, err = LoadConfig(writeConfig(t, "preset: thumbnail\ncompression:\n  max_iteration: 0\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Options().MaxIteration; got != 0 {
		t.Errorf("explicit zero: got %d, want 0", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error")
	}
}
