package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paes-tools/questioncrop/internal/classify"
	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/providers"
	"github.com/spf13/cobra"
)

type classifyOptions struct {
	snapshot  string
	output    string
	provider  string
	model     string
	batchSize int
	force     bool
}

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Label the questions of a corpus snapshot with a vision model",
		Long: `Send the low-fidelity image of every question in a snapshot to a vision model,
in batches, and write one dict_PAES_<document>.json per source document with
the skills, thematic units and sub-units assigned to each question.

Documents that already have a labels file are skipped unless --force is set.`,
		Example: `  # Local Ollama vision model
  questioncrop classify --snapshot output/PAES/bbdd_PAES_20250101_120000.parquet

  # OpenAI, smaller batches
  questioncrop classify --snapshot out/bbdd.parquet --provider openai --batch-size 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.snapshot == "" {
				return fmt.Errorf("--snapshot is required")
			}
			name, provider, err := classify.NewProvider(opts.provider)
			if err != nil {
				return err
			}
			model := opts.model
			if model == "" {
				model = providers.DefaultModel(name)
			}
			slog.Info("Using vision provider", "provider", name, "model", model)

			c := classify.NewClassifier(provider, model, opts.batchSize)
			return executeClassify(cmd.Context(), c, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Parquet corpus snapshot (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Directory for labels files (defaults to the snapshot's directory)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Vision provider: ollama, gemini or openai (defaults to QUESTIONCROP_PROVIDER, then ollama)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (defaults to the provider's *_MODEL variable)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", classify.DefaultBatchSize, "Question images per request")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Relabel documents that already have a labels file")

	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func executeClassify(ctx context.Context, c *classify.Classifier, opts classifyOptions, out io.Writer) error {
	snap, err := corpus.LoadSnapshot(opts.snapshot)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	dir := opts.output
	if dir == "" {
		dir = filepath.Dir(opts.snapshot)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create labels directory: %w", err)
	}

	summary := c.ClassifyCorpus(ctx, snap.Records, dir, opts.force)

	fmt.Fprintf(out, "Labelled %d document(s), skipped %d, failed %d\n",
		len(summary.Written), len(summary.Skipped), len(summary.Failed))
	for _, doc := range summary.Written {
		fmt.Fprintf(out, "  %s\n", classify.LabelsPath(dir, doc))
	}
	return nil
}
