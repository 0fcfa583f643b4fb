package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paes-tools/questioncrop/internal/corpus"
	"github.com/paes-tools/questioncrop/internal/gemini"
	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/paes-tools/questioncrop/internal/ollama"
	"github.com/paes-tools/questioncrop/internal/openai"
	"github.com/paes-tools/questioncrop/internal/providers"
)

// NewProvider returns the named vision provider. An empty name falls back to
// QUESTIONCROP_PROVIDER and then to ollama.
func NewProvider(name string) (string, providers.Provider, error) {
	if name == "" {
		name = os.Getenv("QUESTIONCROP_PROVIDER")
		if name == "" {
			name = "ollama"
		}
	}

	switch name {
	case "openai":
		return name, openai.New(), nil
	case "gemini":
		return name, gemini.New(), nil
	case "ollama":
		p, err := ollama.New()
		if err != nil {
			return name, nil, err
		}
		return name, p, nil
	default:
		return name, nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// Classifier labels question images with a vision model
type Classifier struct {
	provider    providers.Provider
	model       string
	temperature float64
	batchSize   int
}

// NewClassifier creates a classifier; batchSize <= 0 uses DefaultBatchSize
func NewClassifier(provider providers.Provider, model string, batchSize int) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Classifier{
		provider:    provider,
		model:       model,
		temperature: 0.1,
		batchSize:   batchSize,
	}
}

// RunTask sends rows in batches and shallow-merges the replies. The first
// failing batch is logged and ends the task; what was gathered so far is kept.
func (c *Classifier) RunTask(ctx context.Context, task Task, rows []Row) Labels {
	final := Labels{}
	slog.Info("Running classification task", "task", task.Name, "questions", len(rows))

	for i, batch := range Chunk(rows, c.batchSize) {
		out, err := c.send(ctx, task, batch)
		if err != nil {
			slog.Error("Classification batch failed", "task", task.Name, "batch", i, "questions", keys(batch), "err", err)
			break
		}
		MergeShallow(final, out)
		slog.Debug("Classification batch processed", "task", task.Name, "batch", i, "questions", len(batch))
	}
	return final
}

// send performs one request. Images that no longer exist are skipped and a
// batch left without images is not sent.
func (c *Classifier) send(ctx context.Context, task Task, batch []Row) (Labels, error) {
	var images []providers.Image
	for _, row := range batch {
		img, err := providers.LoadImage(row.Key(), row.ImagePath)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Skipping missing question image", "question", row.Key(), "path", row.ImagePath)
			continue
		}
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return Labels{}, nil
	}

	reply, err := c.provider.ExtractText(ctx, providers.Config{
		Model:       c.model,
		Temperature: c.temperature,
		System:      task.System,
		Prompt:      task.Instruction,
		Images:      images,
	})
	if err != nil {
		return nil, err
	}
	return ParseJSON(reply)
}

func keys(batch []Row) []string {
	out := make([]string, len(batch))
	for i, r := range batch {
		out[i] = r.Key()
	}
	return out
}

// unitsOf reads the thematic units assigned to one question
func unitsOf(payload map[string]any) []string {
	switch v := payload[FieldUnit].(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// QuestionsByUnit lists, per thematic unit, the questions labelled with it
func QuestionsByUnit(labels Labels) map[string][]string {
	out := make(map[string][]string)
	for key, payload := range labels {
		for _, unit := range unitsOf(payload) {
			out[unit] = append(out[unit], key)
		}
	}
	return out
}

// ClassifyDocument labels one document's questions: skills, thematic units,
// then sub-units for each unit that has questions. Results are deep-merged.
func (c *Classifier) ClassifyDocument(ctx context.Context, records []models.QuestionRecord) Labels {
	rows := BuildRows(records, nil)
	if len(rows) == 0 {
		return Labels{}
	}

	results := []Labels{
		c.RunTask(ctx, SkillsTask, rows),
	}
	units := c.RunTask(ctx, UnitTask, rows)
	results = append(results, units)

	byUnit := QuestionsByUnit(units)
	for _, unit := range Units {
		qids := byUnit[unit]
		if len(qids) == 0 {
			continue
		}
		subRows := BuildRows(records, qids)
		if len(subRows) == 0 {
			continue
		}
		task, _ := SubUnitTask(unit)
		results = append(results, c.RunTask(ctx, task, subRows))
	}

	return MergeQuestionDicts(results...)
}

// LabelsPath is where a document's labels are written
func LabelsPath(dir, document string) string {
	return filepath.Join(dir, fmt.Sprintf("dict_PAES_%s.json", document))
}

// WriteLabels writes labels as indented JSON with sorted keys
func WriteLabels(path string, labels Labels) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create labels file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(labels); err != nil {
		f.Close()
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return f.Close()
}

// Summary counts what ClassifyCorpus did
type Summary struct {
	Written []string
	Skipped []string
	Failed  []string
}

// ClassifyCorpus labels every document of a corpus into dir. Documents whose
// labels file already exists are skipped unless force is set; a failing
// document is logged and the rest continue.
func (c *Classifier) ClassifyCorpus(ctx context.Context, records []models.QuestionRecord, dir string, force bool) Summary {
	var summary Summary
	for _, group := range corpus.GroupByDocument(records) {
		if ctx.Err() != nil {
			break
		}

		path := LabelsPath(dir, group.Document)
		if _, err := os.Stat(path); err == nil && !force {
			slog.Info("Labels already exist, skipping document", "document", group.Document, "path", path)
			summary.Skipped = append(summary.Skipped, group.Document)
			continue
		}

		labels := c.ClassifyDocument(ctx, group.Records)
		if err := WriteLabels(path, labels); err != nil {
			slog.Error("Failed to write labels", "document", group.Document, "path", path, "err", err)
			summary.Failed = append(summary.Failed, group.Document)
			continue
		}
		slog.Info("Wrote labels", "document", group.Document, "questions", len(labels), "path", path)
		summary.Written = append(summary.Written, group.Document)
	}
	return summary
}
