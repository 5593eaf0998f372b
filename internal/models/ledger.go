package models

import "time"

// CashEntry is one line of the petty-cash ledger. The ledger is
// append-only; corrections are new entries, never edits.
type CashEntry struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"` // IN, OUT
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	StaffName   string    `json:"staff_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimeEntry is a staff time-clock record. ClockOut is nil while the
// shift is still open.
type TimeEntry struct {
	ID        int64      `json:"id"`
	StaffName string     `json:"staff_name"`
	ClockIn   time.Time  `json:"clock_in"`
	ClockOut  *time.Time `json:"clock_out,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Note is a free-form pad entry for the front desk.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
