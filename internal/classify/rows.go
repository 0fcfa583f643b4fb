package classify

import (
	"regexp"
	"strconv"

	"github.com/paes-tools/questioncrop/internal/models"
)

// DefaultBatchSize is the number of question images sent per request
const DefaultBatchSize = 8

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// Row pairs a normalized question id with its low-fidelity image
type Row struct {
	QID       string
	ImagePath string
}

// Key is the label the question carries in requests and responses
func (r Row) Key() string {
	return QuestionKey(r.QID)
}

// QuestionKey formats a question id the way responses are keyed
func QuestionKey(qid string) string {
	return "PREGUNTA_" + qid
}

// NormalizeQID keeps the trailing run of digits, so "PREGUNTA_7", "7" and 7
// all become "7". Ids without digits are returned unchanged.
func NormalizeQID(id string) string {
	if m := trailingDigits.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}

// BuildRows lists the records that have a low-fidelity image, optionally
// restricted to the given question ids (in any accepted form)
func BuildRows(records []models.QuestionRecord, qids []string) []Row {
	var filter map[string]bool
	if qids != nil {
		filter = make(map[string]bool, len(qids))
		for _, q := range qids {
			filter[NormalizeQID(q)] = true
		}
	}

	var rows []Row
	for _, rec := range records {
		if rec.LowQPath == nil {
			continue
		}
		qid := NormalizeQID(strconv.Itoa(rec.QuestionNumber))
		if filter != nil && !filter[qid] {
			continue
		}
		rows = append(rows, Row{QID: qid, ImagePath: *rec.LowQPath})
	}
	return rows
}

// Chunk splits rows into batches of size n; the last batch may be shorter
func Chunk(rows []Row, n int) [][]Row {
	if n <= 0 {
		n = DefaultBatchSize
	}
	var batches [][]Row
	for i := 0; i < len(rows); i += n {
		end := min(i+n, len(rows))
		batches = append(batches, rows[i:end])
	}
	return batches
}
