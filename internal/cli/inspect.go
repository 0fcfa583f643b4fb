package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var snapshotPath string
	var limit int
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the rows of a corpus snapshot",
		Long: `Print a parquet corpus snapshot per source document: how many questions were
found, how many have all their artifacts, and which rows have missing paths.

Useful for reviewing the export failures logged during extraction.`,
		Example: `  # Every row of a snapshot
  questioncrop inspect --snapshot output/PAES/bbdd_PAES_20250101_120000.parquet --limit 0

  # Only the rows whose export failed
  questioncrop inspect --snapshot out/bbdd.parquet --missing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshotPath == "" {
				return fmt.Errorf("--snapshot is required")
			}
			return executeInspect(cmd.Context(), snapshotPath, limit, missingOnly, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Parquet corpus snapshot (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Rows to print per document (0 for all)")
	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Only print rows with missing artifact paths")

	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func pathOrDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func executeInspect(ctx context.Context, snapshotPath string, limit int, missingOnly bool, out io.Writer) error {
	c, err := corpus.LoadSnapshot(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	groups := corpus.GroupByDocument(c.Records)
	fmt.Fprintf(out, "Loaded %d rows from %d document(s) in %s\n", c.Len(), len(groups), snapshotPath)
	fmt.Fprintln(out, strings.Repeat("=", 80))

	for _, g := range groups {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nInspection interrupted.")
			return nil
		default:
		}

		exported := 0
		for _, rec := range g.Records {
			if rec.Exported() {
				exported++
			}
		}

		fmt.Fprintf(out, "\n%s: %d question(s), %d exported, %d missing\n",
			g.Document, len(g.Records), exported, len(g.Records)-exported)
		fmt.Fprintln(out, strings.Repeat("-", 80))

		printed := 0
		for _, rec := range g.Records {
			if missingOnly && rec.Exported() {
				continue
			}
			if limit > 0 && printed == limit {
				fmt.Fprintf(out, "[... more rows, use --limit 0 to show all ...]\n")
				break
			}
			printRow(out, rec)
			printed++
		}
	}

	return nil
}

func printRow(out io.Writer, rec models.QuestionRecord) {
	fmt.Fprintf(out, "page %-3d question %-3d pdf=%s png=%s lowq=%s\n",
		rec.Page, rec.QuestionNumber, pathOrDash(rec.PDFPath), pathOrDash(rec.PNGPath), pathOrDash(rec.LowQPath))
}
