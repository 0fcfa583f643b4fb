package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paes-tools/questioncrop/internal/config"
	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/database"
	"github.com/paes-tools/questioncrop/internal/extraction"
	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/paes-tools/questioncrop/internal/report"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	configPath   string
	input        string
	output       string
	leftRatio    float64
	paddingCM    float64
	dpi          float64
	lowqDPI      float64
	lowqMaxWidth int
	jpegQuality  int
	databaseURL  string
}

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Segment every PDF of a directory into per-question files",
		Long: `Scan each PDF of the input directory for question numbers in the left margin,
export one PDF excerpt, PNG and low-fidelity JPEG per question, and write a
parquet snapshot plus a YAML run report to the output directory.

Settings are read from defaults, then --config, then QUESTIONCROP_* variables,
then explicit flags.`,
		Example: `  # Use the default input/PAES and output/PAES directories
  questioncrop extract

  # Tighter padding and a different margin strip
  questioncrop extract --input exams --output out --padding-cm 1 --left-ratio 0.12

  # Also store the rows in PostgreSQL
  questioncrop extract --database-url postgres://localhost/paes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			dbURL := opts.databaseURL
			if dbURL == "" {
				dbURL = os.Getenv("DATABASE_URL")
			}
			_, err = executeExtract(cmd.Context(), cfg, dbURL, time.Now(), cmd.OutOrStdout())
			return err
		},
	}

	bindExtractFlags(cmd, &opts)

	return cmd
}

// bindExtractFlags registers the extract flags, defaulting to config.Default
func bindExtractFlags(cmd *cobra.Command, opts *extractOptions) {
	d := config.Default()
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.input, "input", d.InputDir, "Directory of source PDFs")
	cmd.Flags().StringVar(&opts.output, "output", d.OutputDir, "Directory for artifacts, snapshot and run report")
	cmd.Flags().Float64Var(&opts.leftRatio, "left-ratio", d.LeftRatio, "Width of the margin strip as a fraction of the page width")
	cmd.Flags().Float64Var(&opts.paddingCM, "padding-cm", d.PaddingCM, "Space kept above each question, in centimetres")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", d.DPI, "Resolution of the full PNG")
	cmd.Flags().Float64Var(&opts.lowqDPI, "lowq-dpi", d.LowQDPI, "Resolution the low-fidelity bound is derived from")
	cmd.Flags().IntVar(&opts.lowqMaxWidth, "lowq-max-width", d.LowQMaxWidth, "Explicit low-fidelity bound in pixels (0 to derive)")
	cmd.Flags().IntVar(&opts.jpegQuality, "jpeg-quality", d.JPEGQuality, "JPEG quality of the low-fidelity image")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
}

// resolveConfig layers defaults, the YAML file, the environment and the flags
// the user actually set
func resolveConfig(cmd *cobra.Command, opts extractOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputDir = opts.input
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.output
	}
	if flags.Changed("left-ratio") {
		cfg.LeftRatio = opts.leftRatio
	}
	if flags.Changed("padding-cm") {
		cfg.PaddingCM = opts.paddingCM
	}
	if flags.Changed("dpi") {
		cfg.DPI = opts.dpi
	}
	if flags.Changed("lowq-dpi") {
		cfg.LowQDPI = opts.lowqDPI
	}
	if flags.Changed("lowq-max-width") {
		cfg.LowQMaxWidth = opts.lowqMaxWidth
	}
	if flags.Changed("jpeg-quality") {
		cfg.JPEGQuality = opts.jpegQuality
	}

	return cfg, nil
}

func executeExtract(ctx context.Context, cfg config.Config, dbURL string, now time.Time, out io.Writer) (report.RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return report.RunReport{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if info, err := os.Stat(cfg.InputDir); err != nil || !info.IsDir() {
		return report.RunReport{}, fmt.Errorf("input directory %s is not readable", cfg.InputDir)
	}

	svc := extraction.NewService(cfg)
	if err := svc.Prepare(); err != nil {
		return report.RunReport{}, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	slog.Info("Starting extraction", "input", cfg.InputDir, "output", cfg.OutputDir)
	c, err := corpus.NewAggregator(svc).Aggregate(cfg.InputDir)
	if err != nil {
		return report.RunReport{}, err
	}

	snapshot := corpus.Persist(c, cfg.OutputDir, cfg.SnapshotPrefix, now)
	r := report.Build(cfg, c, snapshot, now)

	if path, err := report.SaveRunReport(r, cfg.OutputDir); err != nil {
		slog.Error("Failed to write run report", "err", err)
	} else {
		slog.Info("Wrote run report", "path", path)
	}

	if dbURL != "" && snapshot != "" {
		storeRecords(ctx, dbURL, filepath.Base(snapshot), c.Records)
	}

	report.PrintSummary(out, r)
	return r, nil
}

// storeRecords copies the corpus into PostgreSQL; failures are only logged
func storeRecords(ctx context.Context, dbURL, snapshot string, records []models.QuestionRecord) {
	db, err := database.NewDB(ctx, dbURL)
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		return
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		slog.Error("Failed to initialize database", "err", err)
		return
	}
	if err := db.StoreRecords(ctx, snapshot, records); err != nil {
		slog.Error("Failed to store records", "snapshot", snapshot, "err", err)
		return
	}
	slog.Info("Stored records in database", "snapshot", snapshot, "rows", len(records))
}
