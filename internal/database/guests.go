package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

// GetOrCreateGuest looks a guest up by full name and creates the record
// when missing. The front desk identifies returning guests by name;
// documents and phone are filled in later.
func (db *DB) GetOrCreateGuest(ctx context.Context, fullName string) (*models.Guest, error) {
	guest, err := db.GetGuestByName(ctx, fullName)
	if err == nil {
		return guest, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	now := time.Now()
	query := `INSERT INTO guests (full_name, created_at, updated_at) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, fullName, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return &models.Guest{ID: id, FullName: fullName, CreatedAt: now, UpdatedAt: now}, nil
}

func (db *DB) GetGuestByName(ctx context.Context, fullName string) (*models.Guest, error) {
	query := `SELECT id, full_name, phone, document, notes, created_at, updated_at
              FROM guests WHERE full_name = ?`
	return db.queryGuest(ctx, query, fullName)
}

func (db *DB) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	query := `SELECT id, full_name, phone, document, notes, created_at, updated_at
              FROM guests WHERE id = ?`
	return db.queryGuest(ctx, query, id)
}

func (db *DB) UpdateGuest(ctx context.Context, guest *models.Guest) error {
	query := `UPDATE guests SET full_name = ?, phone = ?, document = ?, notes = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		guest.FullName, guest.Phone, guest.Document, guest.Notes, now, guest.ID)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	guest.UpdatedAt = now
	return nil
}

func (db *DB) queryGuest(ctx context.Context, query string, args ...any) (*models.Guest, error) {
	var guest models.Guest
	var phone, document, notes sql.NullString

	err := db.QueryRowContext(ctx, query, args...).Scan(
		&guest.ID, &guest.FullName, &phone, &document, &notes,
		&guest.CreatedAt, &guest.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guest: %w", err)
	}

	guest.Phone = phone.String
	guest.Document = document.String
	guest.Notes = notes.String
	return &guest, nil
}
