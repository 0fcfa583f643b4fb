package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paes-tools/questioncrop/internal/config"
	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/models"
	"gopkg.in/yaml.v3"
)

// RunConfig is the configuration section of a run report
type RunConfig struct {
	InputDir     string  `yaml:"input_dir"`
	OutputDir    string  `yaml:"output_dir"`
	LeftRatio    float64 `yaml:"left_ratio"`
	PaddingCM    float64 `yaml:"padding_cm"`
	DPI          float64 `yaml:"dpi"`
	LowQDPI      float64 `yaml:"lowq_dpi"`
	LowQMaxWidth int     `yaml:"lowq_max_width"`
	JPEGQuality  int     `yaml:"jpeg_quality"`
	Timestamp    string  `yaml:"timestamp"`
}

// RunTotals sums the per-document statistics
type RunTotals struct {
	Documents     int `yaml:"documents"`
	Rows          int `yaml:"rows"`
	Exported      int `yaml:"exported"`
	FailedExports int `yaml:"failed_exports"`
	InvalidPages  int `yaml:"invalid_pages"`
	SkippedPages  int `yaml:"skipped_pages"`
	SkippedFiles  int `yaml:"skipped_files"`
}

// RunReport is the complete record of one extraction run
type RunReport struct {
	Config    RunConfig              `yaml:"config"`
	Totals    RunTotals              `yaml:"totals"`
	Snapshot  string                 `yaml:"snapshot,omitempty"`
	Documents []models.DocumentStats `yaml:"documents"`
	Skipped   []string               `yaml:"skipped,omitempty"`
}

// Build assembles the report of a finished run
func Build(cfg config.Config, c corpus.Corpus, snapshot string, now time.Time) RunReport {
	r := RunReport{
		Config: RunConfig{
			InputDir:     cfg.InputDir,
			OutputDir:    cfg.OutputDir,
			LeftRatio:    cfg.LeftRatio,
			PaddingCM:    cfg.PaddingCM,
			DPI:          cfg.DPI,
			LowQDPI:      cfg.LowQDPI,
			LowQMaxWidth: cfg.LowQMaxWidth,
			JPEGQuality:  cfg.JPEGQuality,
			Timestamp:    now.Format(corpus.TimestampLayout),
		},
		Snapshot:  snapshot,
		Documents: c.Documents,
		Skipped:   c.Skipped,
	}

	r.Totals.Documents = len(c.Documents)
	r.Totals.Rows = c.Len()
	r.Totals.SkippedFiles = len(c.Skipped)
	for _, rec := range c.Records {
		if rec.Exported() {
			r.Totals.Exported++
		}
	}
	for _, d := range c.Documents {
		r.Totals.FailedExports += d.FailedExports
		r.Totals.InvalidPages += len(d.InvalidPages)
		r.Totals.SkippedPages += len(d.SkippedPages)
	}

	return r
}

// SaveRunReport writes run_<timestamp>.yaml into dir and returns its path
func SaveRunReport(r RunReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.yaml", r.Config.Timestamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	slog.Info("Saved run report", "path", path)
	return path, nil
}

// LoadRunReport reads a report written by SaveRunReport
func LoadRunReport(path string) (RunReport, error) {
	var r RunReport
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("failed to read run report: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse run report: %w", err)
	}
	return r, nil
}
