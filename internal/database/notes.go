package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

func (db *DB) CreateNote(ctx context.Context, note *models.Note) error {
	now := time.Now()
	query := `INSERT INTO notes (title, body, pinned, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, note.Title, note.Body, note.Pinned, now, now)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	note.ID = id
	note.CreatedAt = now
	note.UpdatedAt = now
	return nil
}

func (db *DB) UpdateNote(ctx context.Context, note *models.Note) error {
	now := time.Now()
	query := `UPDATE notes SET title = ?, body = ?, pinned = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, note.Title, note.Body, note.Pinned, now, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	note.UpdatedAt = now
	return nil
}

func (db *DB) DeleteNote(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNotes returns all notes, pinned ones first, newest first within
// each group.
func (db *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	query := `SELECT id, title, body, pinned, created_at, updated_at
              FROM notes ORDER BY pinned DESC, updated_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		var title, body sql.NullString
		if err := rows.Scan(&note.ID, &title, &body, &note.Pinned, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.Title = title.String
		note.Body = body.String
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
