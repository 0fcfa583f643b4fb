package corpus

import (
	"github.com/paes-tools/questioncrop/internal/models"
)

// Columns is the fixed schema of every corpus table, in order
var Columns = []string{"page", "question_number", "pdf_path", "png_path", "pdf_file", "lowq_path"}

// Corpus is the cross-document table of question records. Rows keep document
// processing order, then per-document discovery order.
type Corpus struct {
	Records   []models.QuestionRecord
	Documents []models.DocumentStats
	Skipped   []string
}

// Len returns the number of rows
func (c Corpus) Len() int {
	return len(c.Records)
}

// With returns a new corpus with one document's result appended
func (c Corpus) With(result models.DocumentResult) Corpus {
	records := make([]models.QuestionRecord, 0, len(c.Records)+len(result.Records))
	records = append(records, c.Records...)
	records = append(records, result.Records...)

	docs := make([]models.DocumentStats, 0, len(c.Documents)+1)
	docs = append(docs, c.Documents...)
	docs = append(docs, result.Stats)

	return Corpus{
		Records:   records,
		Documents: docs,
		Skipped:   c.Skipped,
	}
}

// WithSkipped returns a new corpus that also lists path as skipped
func (c Corpus) WithSkipped(path string) Corpus {
	skipped := make([]string, 0, len(c.Skipped)+1)
	skipped = append(skipped, c.Skipped...)
	skipped = append(skipped, path)

	return Corpus{
		Records:   c.Records,
		Documents: c.Documents,
		Skipped:   skipped,
	}
}

// DocumentGroup holds the rows of one source document
type DocumentGroup struct {
	Document string
	Records  []models.QuestionRecord
}

// GroupByDocument splits records by pdf_file, in order of first appearance
func GroupByDocument(records []models.QuestionRecord) []DocumentGroup {
	index := make(map[string]int)
	var groups []DocumentGroup
	for _, rec := range records {
		i, ok := index[rec.PDFFile]
		if !ok {
			i = len(groups)
			index[rec.PDFFile] = i
			groups = append(groups, DocumentGroup{Document: rec.PDFFile})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}
