package models

import "time"

// HistoryEntry is an immutable record on a room's log. Entries are only
// ever prepended; the newest entry sits at index 0.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"` // CHECK_IN, CHECK_OUT, STATUS_CHANGE, INFO
	Description string    `json:"description"`
}

// PrependHistory returns a new slice with the entry at index 0. The input
// slice is left untouched.
func PrependHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	out = append(out, history...)
	return out
}
