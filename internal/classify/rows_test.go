package classify

import (
	"testing"

	"github.com/paes-tools/questioncrop/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalizeQID(t *testing.T) {
	tests := map[string]string{
		"PREGUNTA_12": "12",
		"7":           "7",
		"q3a":         "q3a",
		"abc":         "abc",
		"A10":         "10",
	}
	for in, want := range tests {
		if got := NormalizeQID(in); got != want {
			t.Errorf("NormalizeQID(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestBuildRows(t *testing.T) {
	records := []models.QuestionRecord{
		{QuestionNumber: 1, PDFFile: "a", LowQPath: strPtr("lowq/a_Pregunta_1_lowq.jpg")},
		{QuestionNumber: 2, PDFFile: "a"},
		{QuestionNumber: 3, PDFFile: "a", LowQPath: strPtr("lowq/a_Pregunta_3_lowq.jpg")},
	}

	t.Run("drops rows without image", func(t *testing.T) {
		rows := BuildRows(records, nil)
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if rows[0].QID != "1" || rows[1].QID != "3" {
			t.Errorf("Expected ids 1 and 3, got %v", rows)
		}
		if rows[1].Key() != "PREGUNTA_3" {
			t.Errorf("Expected key PREGUNTA_3, got %s", rows[1].Key())
		}
	})

	t.Run("filters by any id form", func(t *testing.T) {
		rows := BuildRows(records, []string{"PREGUNTA_3", "2"})
		if len(rows) != 1 || rows[0].QID != "3" {
			t.Errorf("Expected only question 3, got %v", rows)
		}
	})

	t.Run("empty filter keeps nothing", func(t *testing.T) {
		if rows := BuildRows(records, []string{}); len(rows) != 0 {
			t.Errorf("Expected no rows, got %v", rows)
		}
	})
}

func TestChunk(t *testing.T) {
	rows := make([]Row, 17)
	batches := Chunk(rows, 8)

	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	sizes := []int{8, 8, 1}
	for i, b := range batches {
		if len(b) != sizes[i] {
			t.Errorf("Batch %d: expected %d rows, got %d", i, sizes[i], len(b))
		}
	}

	if got := Chunk(nil, 8); len(got) != 0 {
		t.Errorf("Expected no batches, got %d", len(got))
	}
	if got := Chunk(rows, 0); len(got) != 3 {
		t.Errorf("Expected default batch size, got %d batches", len(got))
	}
}
