package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paes-tools/questioncrop/internal/config"
	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/models"
)

func testCorpus() corpus.Corpus {
	path := "out/a_Pregunta_1.png"
	return corpus.Corpus{
		Records: []models.QuestionRecord{
			{Page: 0, QuestionNumber: 1, PDFFile: "a", PDFPath: &path, PNGPath: &path, LowQPath: &path},
			{Page: 1, QuestionNumber: 2, PDFFile: "a"},
		},
		Documents: []models.DocumentStats{
			{Document: "a", Pages: 3, Markers: 2, Intervals: 2, FailedExports: 1, InvalidPages: []int{2}},
			{Document: "b", Pages: 1, SkippedPages: []int{0}},
		},
		Skipped: []string{"in/notes.txt"},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)

	r := Build(config.Default(), testCorpus(), "out/bbdd.parquet", now)

	expected := RunTotals{
		Documents:     2,
		Rows:          2,
		Exported:      1,
		FailedExports: 1,
		InvalidPages:  1,
		SkippedPages:  1,
		SkippedFiles:  1,
	}
	if r.Totals != expected {
		t.Errorf("Expected totals %+v, got %+v", expected, r.Totals)
	}
	if r.Config.Timestamp != "20250301_143000" {
		t.Errorf("Expected timestamp 20250301_143000, got %s", r.Config.Timestamp)
	}
}

func TestSaveRunReport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	r := Build(config.Default(), testCorpus(), "out/bbdd.parquet", now)

	path, err := SaveRunReport(r, dir)
	if err != nil {
		t.Fatalf("SaveRunReport failed: %v", err)
	}
	if filepath.Base(path) != "run_20250301_143000.yaml" {
		t.Errorf("Unexpected report name %s", filepath.Base(path))
	}

	loaded, err := LoadRunReport(path)
	if err != nil {
		t.Fatalf("LoadRunReport failed: %v", err)
	}
	if loaded.Totals != r.Totals || loaded.Snapshot != r.Snapshot {
		t.Errorf("Expected report to survive a reload, got %+v", loaded)
	}
	if len(loaded.Documents) != 2 || loaded.Documents[0].InvalidPages[0] != 2 {
		t.Errorf("Unexpected documents %+v", loaded.Documents)
	}
}

func TestPrintSummary(t *testing.T) {
	r := Build(config.Default(), testCorpus(), "out/bbdd.parquet", time.Now())

	var buf bytes.Buffer
	PrintSummary(&buf, r)

	out := buf.String()
	for _, want := range []string{"Extraction summary", "pages=3 markers=2 intervals=2 failed=1", "out/bbdd.parquet"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, out)
		}
	}
}
