package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLeftRatio      = 0.143
	DefaultPaddingCM      = 1.5
	DefaultDPI            = 200
	DefaultLowQDPI        = 100
	DefaultJPEGQuality    = 80
	DefaultLowQDir        = "lowq"
	DefaultSnapshotPrefix = "bbdd_PAES"

	pointsPerInch = 72.0
	cmPerInch     = 2.54
)

// Config holds the recognized extraction options
type Config struct {
	InputDir       string  `yaml:"input_dir"`
	OutputDir      string  `yaml:"output_dir"`
	LeftRatio      float64 `yaml:"left_ratio"`
	PaddingCM      float64 `yaml:"padding_cm"`
	DPI            float64 `yaml:"dpi"`
	LowQDPI        float64 `yaml:"lowq_dpi"`
	LowQMaxWidth   int     `yaml:"lowq_max_width"` // 0 derives the bound from LowQDPI
	JPEGQuality    int     `yaml:"jpeg_quality"`
	LowQDir        string  `yaml:"lowq_dir"`
	SnapshotPrefix string  `yaml:"snapshot_prefix"`
}

// Default returns the configuration used when nothing else is provided
func Default() Config {
	return Config{
		InputDir:       "input/PAES",
		OutputDir:      "output/PAES",
		LeftRatio:      DefaultLeftRatio,
		PaddingCM:      DefaultPaddingCM,
		DPI:            DefaultDPI,
		LowQDPI:        DefaultLowQDPI,
		JPEGQuality:    DefaultJPEGQuality,
		LowQDir:        DefaultLowQDir,
		SnapshotPrefix: DefaultSnapshotPrefix,
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from QUESTIONCROP_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("QUESTIONCROP_INPUT_DIR"); v != "" {
		c.InputDir = v
	}
	if v := os.Getenv("QUESTIONCROP_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"QUESTIONCROP_LEFT_RATIO", &c.LeftRatio},
		{"QUESTIONCROP_PADDING_CM", &c.PaddingCM},
		{"QUESTIONCROP_DPI", &c.DPI},
		{"QUESTIONCROP_LOWQ_DPI", &c.LowQDPI},
	}
	for _, f := range floats {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"QUESTIONCROP_LOWQ_MAX_WIDTH", &c.LowQMaxWidth},
		{"QUESTIONCROP_JPEG_QUALITY", &c.JPEGQuality},
	}
	for _, f := range ints {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = parsed
	}

	return nil
}

// Validate checks that the options describe a usable extraction run
func (c Config) Validate() error {
	var errs []error
	if c.LeftRatio <= 0 || c.LeftRatio > 1 {
		errs = append(errs, fmt.Errorf("left_ratio must be in (0, 1], got %v", c.LeftRatio))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %v", c.DPI))
	}
	if c.LowQDPI <= 0 {
		errs = append(errs, fmt.Errorf("lowq_dpi must be positive, got %v", c.LowQDPI))
	}
	if c.LowQMaxWidth < 0 {
		errs = append(errs, fmt.Errorf("lowq_max_width must not be negative, got %d", c.LowQMaxWidth))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be in [1, 100], got %d", c.JPEGQuality))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.LowQDir == "" {
		errs = append(errs, errors.New("lowq_dir is required"))
	}
	return errors.Join(errs...)
}

// PaddingPoints converts the vertical padding from centimetres to points
func (c Config) PaddingPoints() float64 {
	return CMToPoints(c.PaddingCM)
}

// CMToPoints converts centimetres to PDF points
func CMToPoints(cm float64) float64 {
	return cm * pointsPerInch / cmPerInch
}
