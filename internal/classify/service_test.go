package classify

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/paes-tools/questioncrop/internal/providers"
)

// fakeProvider answers every request through reply and records what it saw
type fakeProvider struct {
	calls []providers.Config
	reply func(call int, cfg providers.Config) (string, error)
}

func (f *fakeProvider) ExtractText(ctx context.Context, cfg providers.Config) (string, error) {
	f.calls = append(f.calls, cfg)
	return f.reply(len(f.calls)-1, cfg)
}

func labelsOf(cfg providers.Config) []string {
	out := make([]string, len(cfg.Images))
	for i, img := range cfg.Images {
		out[i] = img.Label
	}
	return out
}

// answer labels every image in the request with the same field value
func answer(cfg providers.Config, field string, values ...string) string {
	out := map[string]map[string][]string{}
	for _, label := range labelsOf(cfg) {
		out[label] = map[string][]string{field: values}
	}
	data, _ := json.Marshal(out)
	return string(data)
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	return path
}

func record(doc string, q int, lowq string) models.QuestionRecord {
	rec := models.QuestionRecord{Page: 0, QuestionNumber: q, PDFFile: doc}
	if lowq != "" {
		rec.LowQPath = &lowq
	}
	return rec
}

func TestRunTaskBatches(t *testing.T) {
	dir := t.TempDir()
	var rows []Row
	for i := 1; i <= 5; i++ {
		rows = append(rows, Row{QID: string(rune('0' + i)), ImagePath: writeImage(t, dir, string(rune('a'+i))+".png")})
	}
	rows[1].ImagePath = filepath.Join(dir, "gone.png")

	fake := &fakeProvider{reply: func(call int, cfg providers.Config) (string, error) {
		return answer(cfg, FieldSkills, "Modelar"), nil
	}}
	c := NewClassifier(fake, "test-model", 2)

	got := c.RunTask(context.Background(), SkillsTask, rows)

	if len(fake.calls) != 3 {
		t.Fatalf("Expected 3 requests, got %d", len(fake.calls))
	}
	if labels := labelsOf(fake.calls[0]); !reflect.DeepEqual(labels, []string{"PREGUNTA_1"}) {
		t.Errorf("Expected missing image to be skipped, got %v", labels)
	}
	if fake.calls[0].System != SkillsTask.System || fake.calls[0].Prompt != SkillsTask.Instruction {
		t.Errorf("Expected task prompts to be sent")
	}
	if fake.calls[0].Model != "test-model" {
		t.Errorf("Expected model test-model, got %s", fake.calls[0].Model)
	}
	if fake.calls[0].Images[0].MIMEType != "image/png" {
		t.Errorf("Expected image/png, got %s", fake.calls[0].Images[0].MIMEType)
	}
	if len(got) != 4 {
		t.Errorf("Expected 4 labelled questions, got %d: %v", len(got), got)
	}
	if _, ok := got["PREGUNTA_2"]; ok {
		t.Errorf("Expected no labels for the missing image")
	}
}

func TestRunTaskStopsAfterFailedBatch(t *testing.T) {
	dir := t.TempDir()
	rows := []Row{
		{QID: "1", ImagePath: writeImage(t, dir, "1.png")},
		{QID: "2", ImagePath: writeImage(t, dir, "2.png")},
		{QID: "3", ImagePath: writeImage(t, dir, "3.png")},
	}

	fake := &fakeProvider{reply: func(call int, cfg providers.Config) (string, error) {
		switch call {
		case 0:
			return answer(cfg, FieldSkills, "Argumentar"), nil
		case 1:
			return "", errors.New("rate limited")
		}
		return answer(cfg, FieldSkills, "Modelar"), nil
	}}
	c := NewClassifier(fake, "m", 1)

	got := c.RunTask(context.Background(), SkillsTask, rows)

	if len(fake.calls) != 2 {
		t.Errorf("Expected processing to stop after the failed batch, got %d requests", len(fake.calls))
	}
	if len(got) != 1 || got["PREGUNTA_1"] == nil {
		t.Errorf("Expected results gathered before the failure, got %v", got)
	}
}

func TestRunTaskUnparseableReply(t *testing.T) {
	dir := t.TempDir()
	rows := []Row{{QID: "1", ImagePath: writeImage(t, dir, "1.png")}, {QID: "2", ImagePath: writeImage(t, dir, "2.png")}}

	fake := &fakeProvider{reply: func(call int, cfg providers.Config) (string, error) {
		return "Sorry, I can't help with that.", nil
	}}
	got := NewClassifier(fake, "m", 1).RunTask(context.Background(), SkillsTask, rows)

	if len(got) != 0 || len(fake.calls) != 1 {
		t.Errorf("Expected one request and no labels, got %d requests and %v", len(fake.calls), got)
	}
}

func TestRunTaskAllImagesMissing(t *testing.T) {
	dir := t.TempDir()
	rows := []Row{{QID: "1", ImagePath: filepath.Join(dir, "none.jpg")}}

	fake := &fakeProvider{reply: func(call int, cfg providers.Config) (string, error) {
		return "{}", nil
	}}
	got := NewClassifier(fake, "m", 8).RunTask(context.Background(), SkillsTask, rows)

	if len(fake.calls) != 0 {
		t.Errorf("Expected no requests, got %d", len(fake.calls))
	}
	if len(got) != 0 {
		t.Errorf("Expected no labels, got %v", got)
	}
}

// unitReplies assigns question 1 to Números and question 2 to Números and Geometría
func unitReplies(t *testing.T) *fakeProvider {
	t.Helper()
	return &fakeProvider{reply: func(call int, cfg providers.Config) (string, error) {
		switch {
		case cfg.System == SkillsTask.System:
			return answer(cfg, FieldSkills, "Resolver Problemas"), nil
		case cfg.System == UnitTask.System:
			return `{"PREGUNTA_1": {"Unidad Temática": ["Números"]},
				"PREGUNTA_2": {"Unidad Temática": ["Números", "Geometría"]}}`, nil
		case strings.Contains(cfg.System, "(Unidad: "+UnitNumbers+")"):
			return answer(cfg, FieldSubUnit, "Concepto y cálculo de porcentaje"), nil
		case strings.Contains(cfg.System, "(Unidad: "+UnitGeometry+")"):
			return answer(cfg, FieldSubUnit, "Volumen de paralelepípedos y cubos"), nil
		}
		t.Errorf("Unexpected request: %s", cfg.System)
		return "{}", nil
	}}
}

func TestClassifyDocument(t *testing.T) {
	dir := t.TempDir()
	records := []models.QuestionRecord{
		record("exam", 1, writeImage(t, dir, "q1.png")),
		record("exam", 2, writeImage(t, dir, "q2.png")),
		record("exam", 3, ""),
	}

	fake := unitReplies(t)
	got := NewClassifier(fake, "m", 8).ClassifyDocument(context.Background(), records)

	if len(fake.calls) != 4 {
		t.Fatalf("Expected skills, units and two sub-unit requests, got %d", len(fake.calls))
	}
	geometry := fake.calls[3]
	if labels := labelsOf(geometry); !reflect.DeepEqual(labels, []string{"PREGUNTA_2"}) {
		t.Errorf("Expected only question 2 in the geometry pass, got %v", labels)
	}

	want := Labels{
		"PREGUNTA_1": {
			FieldSkills:  []any{"Resolver Problemas"},
			FieldUnit:    []any{"Números"},
			FieldSubUnit: []any{"Concepto y cálculo de porcentaje"},
		},
		"PREGUNTA_2": {
			FieldSkills:  []any{"Resolver Problemas"},
			FieldUnit:    []any{"Números", "Geometría"},
			FieldSubUnit: []any{"Concepto y cálculo de porcentaje", "Volumen de paralelepípedos y cubos"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestClassifyDocumentWithoutImages(t *testing.T) {
	fake := unitReplies(t)
	got := NewClassifier(fake, "m", 8).ClassifyDocument(context.Background(), []models.QuestionRecord{record("x", 1, "")})

	if len(got) != 0 || len(fake.calls) != 0 {
		t.Errorf("Expected nothing to classify, got %v after %d requests", got, len(fake.calls))
	}
}

func TestClassifyCorpus(t *testing.T) {
	imgDir := t.TempDir()
	outDir := t.TempDir()
	records := []models.QuestionRecord{
		record("first", 1, writeImage(t, imgDir, "f1.png")),
		record("second", 1, writeImage(t, imgDir, "s1.png")),
	}

	existing := LabelsPath(outDir, "second")
	if err := os.WriteFile(existing, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to seed labels: %v", err)
	}

	c := NewClassifier(unitReplies(t), "m", 8)
	summary := c.ClassifyCorpus(context.Background(), records, outDir, false)

	if !reflect.DeepEqual(summary.Written, []string{"first"}) {
		t.Errorf("Expected first to be written, got %v", summary.Written)
	}
	if !reflect.DeepEqual(summary.Skipped, []string{"second"}) {
		t.Errorf("Expected second to be skipped, got %v", summary.Skipped)
	}

	data, err := os.ReadFile(LabelsPath(outDir, "first"))
	if err != nil {
		t.Fatalf("Expected labels file: %v", err)
	}
	if !strings.Contains(string(data), `"Unidad Temática": [`) {
		t.Errorf("Expected unescaped, indented unit labels, got %s", data)
	}
	if strings.Index(string(data), FieldSkills) > strings.Index(string(data), FieldUnit) {
		t.Errorf("Expected sorted keys, got %s", data)
	}

	if kept, _ := os.ReadFile(existing); string(kept) != "{}" {
		t.Errorf("Expected existing labels untouched, got %s", kept)
	}

	forced := c.ClassifyCorpus(context.Background(), records, outDir, true)
	if len(forced.Written) != 2 {
		t.Errorf("Expected both documents with force, got %v", forced.Written)
	}
}

func TestLabelsPath(t *testing.T) {
	got := LabelsPath("out", "2024_M1")
	want := filepath.Join("out", "dict_PAES_2024_M1.json")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
