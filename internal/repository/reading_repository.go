package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/rci-backend-go/internal/database"
	"github.com/jengzang/rci-backend-go/internal/models"
)

// ReadingRepository handles database operations for stored readings
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a new reading repository
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// InsertUpload stores one upload and its readings in a single transaction
func (r *ReadingRepository) InsertUpload(ctx context.Context, upload models.UploadResult, readings []models.Reading) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO uploads (id, file_name, stored, skipped) VALUES (?, ?, ?, ?)`,
			upload.UploadID, upload.FileName, upload.Stored, upload.Skipped,
		)
		if err != nil {
			return fmt.Errorf("failed to insert upload: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO readings (upload_id, rci, latitude, longitude) VALUES (?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("failed to prepare reading insert: %w", err)
		}
		defer stmt.Close()

		for _, reading := range readings {
			if _, err := stmt.ExecContext(ctx, upload.UploadID, reading.Value, reading.Latitude, reading.Longitude); err != nil {
				return fmt.Errorf("failed to insert reading: %w", err)
			}
		}
		return nil
	})
}

// GetReadings returns every stored reading in insertion order
func (r *ReadingRepository) GetReadings(ctx context.Context) ([]models.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rci, latitude, longitude FROM readings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := make([]models.Reading, 0)
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(&reading.Value, &reading.Latitude, &reading.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// CountReadings returns the number of stored readings
func (r *ReadingRepository) CountReadings(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// DeleteAll removes every stored upload and reading. It returns the number of
// readings removed.
func (r *ReadingRepository) DeleteAll(ctx context.Context) (int64, error) {
	var removed int64
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM readings`)
		if err != nil {
			return fmt.Errorf("failed to delete readings: %w", err)
		}
		removed, _ = result.RowsAffected()

		if _, err := tx.ExecContext(ctx, `DELETE FROM uploads`); err != nil {
			return fmt.Errorf("failed to delete uploads: %w", err)
		}
		return nil
	})
	return removed, err
}
