package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questioncrop.yaml")
	content := "left_ratio: 0.2\npadding_cm: -0.25\njpeg_quality: 70\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LeftRatio != 0.2 {
		t.Errorf("Expected LeftRatio=0.2, got %v", cfg.LeftRatio)
	}
	if cfg.PaddingCM != -0.25 {
		t.Errorf("Expected PaddingCM=-0.25, got %v", cfg.PaddingCM)
	}
	if cfg.JPEGQuality != 70 {
		t.Errorf("Expected JPEGQuality=70, got %d", cfg.JPEGQuality)
	}
	if cfg.DPI != DefaultDPI {
		t.Errorf("Expected DPI to keep default %d, got %v", DefaultDPI, cfg.DPI)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUESTIONCROP_DPI", "300")
	t.Setenv("QUESTIONCROP_LOWQ_MAX_WIDTH", "640")
	t.Setenv("QUESTIONCROP_OUTPUT_DIR", "/tmp/out")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.DPI != 300 {
		t.Errorf("Expected DPI=300, got %v", cfg.DPI)
	}
	if cfg.LowQMaxWidth != 640 {
		t.Errorf("Expected LowQMaxWidth=640, got %d", cfg.LowQMaxWidth)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("Expected OutputDir=/tmp/out, got %s", cfg.OutputDir)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("QUESTIONCROP_LEFT_RATIO", "wide")

	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("Expected error for non-numeric ratio")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"zero ratio", func(c *Config) { c.LeftRatio = 0 }, true},
		{"full width ratio", func(c *Config) { c.LeftRatio = 1 }, false},
		{"negative dpi", func(c *Config) { c.DPI = -1 }, true},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }, true},
		{"negative max width", func(c *Config) { c.LowQMaxWidth = -5 }, true},
		{"missing output", func(c *Config) { c.OutputDir = "" }, true},
		{"negative padding allowed", func(c *Config) { c.PaddingCM = -0.25 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPaddingPoints(t *testing.T) {
	cfg := Default()
	cfg.PaddingCM = 2.54
	if got := cfg.PaddingPoints(); math.Abs(got-72) > 1e-9 {
		t.Errorf("Expected 72 points, got %v", got)
	}
}
