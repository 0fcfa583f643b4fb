package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paes-tools/questioncrop/internal/models"
)

// Processor turns one PDF into its corpus rows
type Processor interface {
	ProcessDocument(path string) (models.DocumentResult, error)
}

// Aggregator folds every PDF of a directory into one corpus
type Aggregator struct {
	processor Processor
}

// NewAggregator creates an aggregator over the given processor
func NewAggregator(p Processor) *Aggregator {
	return &Aggregator{processor: p}
}

// IsPDF reports whether name carries a .pdf suffix, in any case
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Aggregate processes the directory's PDFs one at a time, in name order.
// Only an unreadable directory is an error: other entries and unreadable
// documents are logged and skipped.
func (a *Aggregator) Aggregate(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	var c Corpus
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() || !IsPDF(entry.Name()) {
			slog.Info("Skipping non-PDF entry", "path", path)
			c = c.WithSkipped(path)
			continue
		}

		result, err := a.processor.ProcessDocument(path)
		if err != nil {
			slog.Error("Skipping unreadable document", "path", path, "err", err)
			c = c.WithSkipped(path)
			continue
		}

		c = c.With(result)
	}

	slog.Info("Aggregated corpus", "documents", len(c.Documents), "rows", c.Len(), "skipped", len(c.Skipped))
	return c, nil
}
