package layout

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/paes-tools/questioncrop/internal/models"
)

// DocumentScan holds everything the Boundary Resolver needs for one document
type DocumentScan struct {
	Name         string
	PageCount    int
	Padding      float64
	Markers      []models.QuestionMarker
	InvalidPages map[int]bool
	Geometry     map[int]models.PageGeometry
	SkippedPages []int
}

// Intervals resolves the document's markers into question intervals
func (d *DocumentScan) Intervals() []models.QuestionInterval {
	return ResolveIntervals(d.Markers, d.InvalidPages, d.Geometry, d.Padding)
}

// Scanner runs the Token Scanner and Page Validity Filter over whole documents
type Scanner struct {
	LeftRatio float64
	Padding   float64 // points subtracted from every marker top and from the page bottom
}

// NewScanner creates a scanner for the given margin ratio and padding in points
func NewScanner(leftRatio, padding float64) *Scanner {
	return &Scanner{
		LeftRatio: leftRatio,
		Padding:   padding,
	}
}

// DocumentName returns the base name used to key a document's artifacts
func DocumentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ScanFile opens a PDF and scans every page in order. Unreadable pages are
// logged and skipped; only a document that cannot be opened returns an error.
func (s *Scanner) ScanFile(path string) (scan *DocumentScan, err error) {
	defer func() {
		if r := recover(); r != nil {
			scan = nil
			err = fmt.Errorf("failed to read PDF structure: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	name := DocumentName(path)
	numPages := r.NumPage()
	pages := make([]PageScan, 0, numPages)
	var skipped []int

	for i := 0; i < numPages; i++ {
		ps, err := ScanPage(r.Page(i+1), i, s.LeftRatio)
		if err != nil {
			slog.Warn("Skipping unreadable page", "document", name, "page", i, "err", err)
			skipped = append(skipped, i)
			continue
		}
		pages = append(pages, ps)
	}

	scan = s.Collect(name, pages)
	scan.PageCount = numPages
	scan.SkippedPages = skipped
	return scan, nil
}

// Collect folds per-page scans into a DocumentScan. Markers keep page
// discovery order; each marker's YTop is its token top minus the padding.
func (s *Scanner) Collect(name string, pages []PageScan) *DocumentScan {
	scan := &DocumentScan{
		Name:         name,
		PageCount:    len(pages),
		Padding:      s.Padding,
		InvalidPages: make(map[int]bool),
		Geometry:     make(map[int]models.PageGeometry),
	}

	for _, ps := range pages {
		scan.Geometry[ps.Page] = ps.Geometry

		if ps.Invalid() {
			slog.Debug("Excluding page with margin text but no question number", "document", name, "page", ps.Page)
			scan.InvalidPages[ps.Page] = true
			continue
		}

		prev := -1
		for _, nt := range ps.Numbers {
			if nt.Number < prev {
				slog.Debug("Question numbering decreases within page", "document", name, "page", ps.Page, "previous", prev, "number", nt.Number)
			}
			prev = nt.Number

			scan.Markers = append(scan.Markers, models.QuestionMarker{
				Page:           ps.Page,
				QuestionNumber: nt.Number,
				YTop:           nt.Token.Y0 - s.Padding,
				Document:       name,
				Text:           nt.Token.Text,
			})
		}
	}

	slog.Debug("Scanned document", "document", name, "pages", len(pages), "markers", len(scan.Markers), "invalid_pages", len(scan.InvalidPages))
	return scan
}
