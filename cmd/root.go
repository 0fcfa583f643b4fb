package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/paes-tools/questioncrop/internal/cli"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "questioncrop",
		Short: "Cut PAES exam booklets into one file per question",
		Long: `Questioncrop finds question numbers in the left margin of exam PDFs and
exports every question as a vector PDF excerpt, a full-resolution PNG and a
low-fidelity JPEG, then records them all in a parquet corpus.

The corpus can be labelled by a vision model with the classify command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(cli.NewExtractCmd())
	cmd.AddCommand(cli.NewClassifyCmd())
	cmd.AddCommand(cli.NewInspectCmd())
	cmd.AddCommand(cli.NewReportCmd())

	return cmd
}
