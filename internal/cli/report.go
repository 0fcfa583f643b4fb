package cli

import (
	"fmt"
	"io"

	"github.com/paes-tools/questioncrop/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Print the summary of a saved run report",
		Example: `  questioncrop report --file output/PAES/run_20250101_120000.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			return executeReport(file, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Run report written by extract (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func executeReport(file string, out io.Writer) error {
	r, err := report.LoadRunReport(file)
	if err != nil {
		return fmt.Errorf("failed to load run report: %w", err)
	}
	report.PrintSummary(out, r)
	return nil
}
