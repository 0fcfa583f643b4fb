package extraction

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/paes-tools/questioncrop/internal/config"
	"github.com/paes-tools/questioncrop/internal/export"
	"github.com/paes-tools/questioncrop/internal/layout"
	"github.com/paes-tools/questioncrop/internal/models"
)

// Document is an open source PDF the exporter can cut regions from
type Document interface {
	export.Source
	Close() error
}

// Opener opens a PDF for export
type Opener func(path string) (Document, error)

// OpenDocument opens a PDF with the MuPDF/pdfcpu backed exporter source
func OpenDocument(path string) (Document, error) {
	doc, err := export.OpenDocument(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Service segments one document at a time: scan, resolve, export
type Service struct {
	scanner  *layout.Scanner
	exporter *export.Exporter
	open     Opener
}

// NewService creates a service from the run configuration
func NewService(cfg config.Config) *Service {
	return &Service{
		scanner:  layout.NewScanner(cfg.LeftRatio, cfg.PaddingPoints()),
		exporter: export.NewExporter(cfg),
		open:     OpenDocument,
	}
}

// NewServiceWith wires explicit components, mostly for tests
func NewServiceWith(scanner *layout.Scanner, exporter *export.Exporter, open Opener) *Service {
	return &Service{
		scanner:  scanner,
		exporter: exporter,
		open:     open,
	}
}

// Prepare creates the output directories
func (s *Service) Prepare() error {
	return s.exporter.Prepare()
}

// ProcessDocument runs the whole pipeline on one PDF. An error means the file
// could not be read at all; per-page and per-question problems are logged and
// reflected in the result instead.
func (s *Service) ProcessDocument(path string) (models.DocumentResult, error) {
	scan, err := s.scanner.ScanFile(path)
	if err != nil {
		return models.DocumentResult{}, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	intervals := scan.Intervals()
	result := models.DocumentResult{
		Stats: models.DocumentStats{
			Document:     scan.Name,
			Pages:        scan.PageCount,
			SkippedPages: scan.SkippedPages,
			InvalidPages: sortedPages(scan.InvalidPages),
			Markers:      len(scan.Markers),
			Intervals:    len(intervals),
		},
	}

	if len(intervals) == 0 {
		slog.Info("No question markers found", "document", scan.Name, "pages", scan.PageCount)
		return result, nil
	}

	result.Records = s.exportAll(path, scan, intervals)
	for _, rec := range result.Records {
		if !rec.Exported() {
			result.Stats.FailedExports++
		}
	}

	slog.Info("Processed document",
		"document", scan.Name,
		"pages", scan.PageCount,
		"questions", len(result.Records),
		"failed", result.Stats.FailedExports)

	return result, nil
}

// exportAll holds the document open only while its intervals are exported
func (s *Service) exportAll(path string, scan *layout.DocumentScan, intervals []models.QuestionInterval) []models.QuestionRecord {
	records := make([]models.QuestionRecord, 0, len(intervals))

	doc, err := s.open(path)
	if err != nil {
		slog.Error("Failed to open document for export", "document", scan.Name, "err", err)
		for _, iv := range intervals {
			records = append(records, export.Failed(scan.Name, iv))
		}
		return records
	}
	defer func() {
		if err := doc.Close(); err != nil {
			slog.Warn("Failed to close document", "document", scan.Name, "err", err)
		}
	}()

	for _, iv := range intervals {
		records = append(records, s.exporter.Export(doc, scan.Name, iv, scan.Geometry[iv.Page]))
	}
	return records
}

func sortedPages(set map[int]bool) []int {
	if len(set) == 0 {
		return nil
	}
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}
