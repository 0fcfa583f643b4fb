package corpus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paes-tools/questioncrop/internal/models"
	"github.com/parquet-go/parquet-go"
)

// TimestampLayout formats snapshot and report timestamps
const TimestampLayout = "20060102_150405"

// maxCollisions bounds the numeric suffixes tried for one timestamp
const maxCollisions = 1000

// SnapshotName returns the file name of a snapshot taken at now
func SnapshotName(prefix string, now time.Time, attempt int) string {
	if attempt == 0 {
		return fmt.Sprintf("%s_%s.parquet", prefix, now.Format(TimestampLayout))
	}
	return fmt.Sprintf("%s_%s_%d.parquet", prefix, now.Format(TimestampLayout), attempt)
}

// SaveSnapshot writes the corpus rows to a new parquet file in dir and returns
// its path. Existing files are never overwritten: a same-second collision gets
// a numeric suffix. An empty corpus still produces a file with the schema.
func SaveSnapshot(c Corpus, dir, prefix string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	var (
		f    *os.File
		path string
		err  error
	)
	for attempt := 0; attempt < maxCollisions; attempt++ {
		path = filepath.Join(dir, SnapshotName(prefix, now, attempt))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil || !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}

	if err := writeRecords(f, c.Records); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}

	slog.Info("Saved corpus snapshot", "path", path, "rows", c.Len())
	return path, nil
}

func writeRecords(w io.Writer, records []models.QuestionRecord) error {
	writer := parquet.NewGenericWriter[models.QuestionRecord](w)
	if len(records) > 0 {
		if _, err := writer.Write(records); err != nil {
			return fmt.Errorf("failed to write snapshot rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	return nil
}

// Persist saves a snapshot and logs instead of failing. It returns the
// snapshot path, or "" when nothing could be written.
func Persist(c Corpus, dir, prefix string, now time.Time) string {
	path, err := SaveSnapshot(c, dir, prefix, now)
	if err != nil {
		slog.Error("Failed to save corpus snapshot", "dir", dir, "rows", c.Len(), "err", err)
		return ""
	}
	return path
}

// LoadSnapshot reads a parquet snapshot back into a corpus
func LoadSnapshot(path string) (Corpus, error) {
	slog.Debug("Opening snapshot", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.QuestionRecord](pf)
	defer reader.Close()

	records := make([]models.QuestionRecord, 0, pf.NumRows())
	for {
		// fresh batch each time so nullable paths never alias earlier rows
		rows := make([]models.QuestionRecord, 128)
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Corpus{}, fmt.Errorf("failed to read snapshot rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	slog.Debug("Loaded snapshot", "path", path, "rows", len(records))
	return Corpus{Records: records}, nil
}
