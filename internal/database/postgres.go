package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paes-tools/questioncrop/internal/models"
)

// DB represents the database connection
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection
func NewDB(ctx context.Context, connStr string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the pool
func (db *DB) Close() {
	db.Pool.Close()
}

// Initialize creates the corpus table if it does not exist
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS question_records (
            id SERIAL PRIMARY KEY,
            snapshot TEXT NOT NULL,
            position INTEGER NOT NULL,
            page INTEGER NOT NULL,
            question_number INTEGER NOT NULL,
            pdf_path TEXT,
            png_path TEXT,
            pdf_file TEXT NOT NULL,
            lowq_path TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create question_records table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS question_records_pdf_file_idx ON question_records (pdf_file);
		CREATE INDEX IF NOT EXISTS question_records_snapshot_idx ON question_records (snapshot);
	`)
	if err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	return nil
}

const insertRecord = `
    INSERT INTO question_records (
        snapshot, position, page, question_number,
        pdf_path, png_path, pdf_file, lowq_path
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// recordArgs returns the insert arguments of one row; nil paths become NULL
func recordArgs(snapshot string, position int, rec models.QuestionRecord) []any {
	return []any{
		snapshot,
		position,
		rec.Page,
		rec.QuestionNumber,
		rec.PDFPath,
		rec.PNGPath,
		rec.PDFFile,
		rec.LowQPath,
	}
}

// StoreRecords inserts the rows of one snapshot in a single batch
func (db *DB) StoreRecords(ctx context.Context, snapshot string, records []models.QuestionRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, rec := range records {
		batch.Queue(insertRecord, recordArgs(snapshot, i, rec)...)
	}

	if err := db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store question records: %w", err)
	}
	return nil
}

// RecordsForSnapshot returns a snapshot's rows in their original order
func (db *DB) RecordsForSnapshot(ctx context.Context, snapshot string) ([]models.QuestionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT page, question_number, pdf_path, png_path, pdf_file, lowq_path
        FROM question_records
        WHERE snapshot = $1
        ORDER BY position
    `, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to query question records: %w", err)
	}
	defer rows.Close()

	var records []models.QuestionRecord
	for rows.Next() {
		var rec models.QuestionRecord
		if err := rows.Scan(&rec.Page, &rec.QuestionNumber, &rec.PDFPath, &rec.PNGPath, &rec.PDFFile, &rec.LowQPath); err != nil {
			return nil, fmt.Errorf("failed to scan question record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read question records: %w", err)
	}

	return records, nil
}
