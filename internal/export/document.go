package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Source is an open document the exporter cuts regions from
type Source interface {
	// RenderPage rasterizes a whole page (0-based) at dpi
	RenderPage(page int, dpi float64) (image.Image, error)
	// Excerpt writes a single-page PDF showing only box of the given page
	Excerpt(page int, box Rect, geom models.PageGeometry, w io.Writer) error
}

var disableConfigDir sync.Once

// Document renders pages with MuPDF and excerpts them with pdfcpu. Both work
// from one in-memory copy of the file, so the path is only read once.
type Document struct {
	path string
	data []byte
	doc  *fitz.Document
	conf *model.Configuration
}

// OpenDocument loads a PDF for export. Call Close when done.
func OpenDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}

	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Document{
		path: path,
		data: data,
		doc:  doc,
		conf: conf,
	}, nil
}

// NumPage returns the number of pages MuPDF sees in the document
func (d *Document) NumPage() int {
	return d.doc.NumPage()
}

// RenderPage rasterizes a full page
func (d *Document) RenderPage(page int, dpi float64) (image.Image, error) {
	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	return img, nil
}

// Excerpt keeps only the requested page and sets its crop box to box, so the
// excerpt keeps the page's vector content and text layer.
func (d *Document) Excerpt(page int, box Rect, geom models.PageGeometry, w io.Writer) error {
	var single bytes.Buffer
	if err := api.Trim(bytes.NewReader(d.data), &single, []string{strconv.Itoa(page + 1)}, d.conf); err != nil {
		return fmt.Errorf("failed to extract page %d: %w", page, err)
	}

	cropBox, err := api.Box(box.UserSpace(geom), types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to parse crop box: %w", err)
	}

	if err := api.Crop(bytes.NewReader(single.Bytes()), w, nil, cropBox, d.conf); err != nil {
		return fmt.Errorf("failed to crop page %d: %w", page, err)
	}
	return nil
}

// Close releases the MuPDF handle
func (d *Document) Close() error {
	if err := d.doc.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", d.path, err)
	}
	return nil
}
