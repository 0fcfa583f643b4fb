package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paes-tools/questioncrop/internal/config"
	"github.com/paes-tools/questioncrop/internal/models"
)

// Exporter writes the three artifacts of every question interval
type Exporter struct {
	OutputDir    string
	LowQDir      string // relative to OutputDir
	DPI          float64
	LowQDPI      float64
	LowQMaxWidth int
	JPEGQuality  int
}

// NewExporter creates an exporter from the run configuration
func NewExporter(cfg config.Config) *Exporter {
	return &Exporter{
		OutputDir:    cfg.OutputDir,
		LowQDir:      cfg.LowQDir,
		DPI:          cfg.DPI,
		LowQDPI:      cfg.LowQDPI,
		LowQMaxWidth: cfg.LowQMaxWidth,
		JPEGQuality:  cfg.JPEGQuality,
	}
}

// ArtifactBase is the stem every artifact of one question shares
func ArtifactBase(document string, question int) string {
	return fmt.Sprintf("%s_Pregunta_%d", document, question)
}

// Paths holds the output locations of one question's artifacts
type Paths struct {
	PDF  string
	PNG  string
	LowQ string
}

// PathsFor returns where the artifacts of one question are written
func (e *Exporter) PathsFor(document string, question int) Paths {
	base := ArtifactBase(document, question)
	return Paths{
		PDF:  filepath.Join(e.OutputDir, base+".pdf"),
		PNG:  filepath.Join(e.OutputDir, base+".png"),
		LowQ: filepath.Join(e.OutputDir, e.LowQDir, base+"_lowq.jpg"),
	}
}

// Prepare creates the output and low-fidelity directories
func (e *Exporter) Prepare() error {
	if err := os.MkdirAll(filepath.Join(e.OutputDir, e.LowQDir), 0755); err != nil {
		return fmt.Errorf("failed to create output directories: %w", err)
	}
	return nil
}

// Failed returns the record of an interval whose export did not complete
func Failed(document string, iv models.QuestionInterval) models.QuestionRecord {
	return models.QuestionRecord{
		Page:           iv.Page,
		QuestionNumber: iv.QuestionNumber,
		PDFFile:        document,
	}
}

// Export writes the vector excerpt, the full-resolution PNG and the low-fidelity
// JPEG for one interval. Artifacts are staged next to their final names and
// only moved into place once all three are complete, so a failure never
// touches files left by an earlier interval with the same question number. Any
// failure is logged and the returned record carries nil paths.
func (e *Exporter) Export(src Source, document string, iv models.QuestionInterval, geom models.PageGeometry) models.QuestionRecord {
	paths := e.PathsFor(document, iv.QuestionNumber)

	var staged []stagedFile
	err := e.export(src, iv, geom, paths, &staged)
	if err == nil {
		err = commit(staged)
	}
	if err != nil {
		slog.Error("Failed to export question", "document", document, "page", iv.Page, "question", iv.QuestionNumber, "err", err)
		discard(staged)
		return Failed(document, iv)
	}

	slog.Debug("Exported question", "document", document, "page", iv.Page, "question", iv.QuestionNumber, "png", paths.PNG)
	return models.QuestionRecord{
		Page:           iv.Page,
		QuestionNumber: iv.QuestionNumber,
		PDFPath:        &paths.PDF,
		PNGPath:        &paths.PNG,
		PDFFile:        document,
		LowQPath:       &paths.LowQ,
	}
}

func (e *Exporter) export(src Source, iv models.QuestionInterval, geom models.PageGeometry, paths Paths, staged *[]stagedFile) error {
	rect, err := ClampRect(iv, geom)
	if err != nil {
		return err
	}

	if err := stageFile(paths.PDF, staged, func(w io.Writer) error {
		return src.Excerpt(iv.Page, rect, geom, w)
	}); err != nil {
		return fmt.Errorf("failed to write excerpt: %w", err)
	}

	page, err := src.RenderPage(iv.Page, e.DPI)
	if err != nil {
		return err
	}
	img, err := CropImage(page, rect, e.DPI)
	if err != nil {
		return err
	}

	if err := stageFile(paths.PNG, staged, func(w io.Writer) error {
		return WritePNG(w, img)
	}); err != nil {
		return fmt.Errorf("failed to write raster: %w", err)
	}

	bound := LowQBound(rect.Width(), e.LowQDPI, e.LowQMaxWidth)
	if err := stageFile(paths.LowQ, staged, func(w io.Writer) error {
		return WriteLowQ(w, img, bound, e.JPEGQuality)
	}); err != nil {
		return fmt.Errorf("failed to write low-fidelity raster: %w", err)
	}

	return nil
}

// stagedFile is a finished artifact waiting to be renamed to its final path
type stagedFile struct {
	temp  string
	final string
}

// stageFile writes into a temporary file in the final path's directory and
// records it in staged once it exists on disk
func stageFile(path string, staged *[]stagedFile, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	*staged = append(*staged, stagedFile{temp: f.Name(), final: path})
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := f.Chmod(0644); err != nil {
		return err
	}
	return write(f)
}

// commit moves every staged file into place. Files already renamed stay, as
// they are complete artifacts of this interval.
func commit(staged []stagedFile) error {
	for _, s := range staged {
		if err := os.Rename(s.temp, s.final); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", s.final, err)
		}
	}
	return nil
}

// discard removes staged files that never reached their final path
func discard(staged []stagedFile) {
	for _, s := range staged {
		if err := os.Remove(s.temp); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to remove partial artifact", "path", s.temp, "err", err)
		}
	}
}
