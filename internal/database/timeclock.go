package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"frontdesk/internal/models"
)

// ClockIn opens a time entry for the staff member. At most one entry per
// person may be open; the guard runs inside a transaction.
func (db *DB) ClockIn(ctx context.Context, staffName string, at time.Time) (*models.TimeEntry, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_entries WHERE staff_name = ? AND clock_out IS NULL`,
		staffName).Scan(&open)
	if err != nil {
		return nil, fmt.Errorf("failed to check open shift: %w", err)
	}
	if open > 0 {
		return nil, ErrShiftOpen
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO time_entries (staff_name, clock_in, created_at) VALUES (?, ?, ?)`,
		staffName, at, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to clock in: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit clock in: %w", err)
	}

	return &models.TimeEntry{ID: id, StaffName: staffName, ClockIn: at}, nil
}

// ClockOut closes the staff member's open entry.
func (db *DB) ClockOut(ctx context.Context, staffName string, at time.Time) (*models.TimeEntry, error) {
	entry, err := db.GetOpenTimeEntry(ctx, staffName)
	if err == ErrNotFound {
		return nil, ErrNoOpenShift
	}
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE time_entries SET clock_out = ? WHERE id = ?`, at, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to clock out: %w", err)
	}

	entry.ClockOut = &at
	return entry, nil
}

func (db *DB) GetOpenTimeEntry(ctx context.Context, staffName string) (*models.TimeEntry, error) {
	query := `SELECT id, staff_name, clock_in, clock_out, created_at
              FROM time_entries
              WHERE staff_name = ? AND clock_out IS NULL
              ORDER BY clock_in DESC LIMIT 1`
	entry, err := scanTimeEntry(db.QueryRowContext(ctx, query, staffName))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open time entry: %w", err)
	}
	return entry, nil
}

func (db *DB) ListTimeEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	query := `SELECT id, staff_name, clock_in, clock_out, created_at
              FROM time_entries
              WHERE clock_in >= ? AND clock_in < ?
              ORDER BY clock_in DESC`
	rows, err := db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanTimeEntry(row roomScanner) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	var clockOut sql.NullTime

	if err := row.Scan(&entry.ID, &entry.StaffName, &entry.ClockIn, &clockOut, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if clockOut.Valid {
		entry.ClockOut = &clockOut.Time
	}
	return &entry, nil
}
