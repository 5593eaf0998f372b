// Package workflow owns the room status state machine: which transitions
// are named one-click actions, what each one clears, and what it writes to
// the room history. The whole table lives in Apply so legality and side
// effects are not scattered across UI handlers.
//
// The package performs no I/O and never returns an error: a manual
// override may move a room between any two statuses, and conflict
// handling is the caller's concern (see service.RoomService).
package workflow

import (
	"fmt"
	"time"

	"frontdesk/internal/models"

	"github.com/google/uuid"
)

// Trigger names the matched transition case, mostly for logging and
// metrics labels.
type Trigger string

const (
	TriggerMarkClean         Trigger = "mark_clean"
	TriggerStartMaintenance  Trigger = "start_maintenance"
	TriggerCheckOut          Trigger = "check_out"
	TriggerCheckIn           Trigger = "check_in"
	TriggerCancelReservation Trigger = "cancel_reservation"
	TriggerManualOverride    Trigger = "manual_override"
	TriggerNone              Trigger = "none"
)

// Field identifies a room field a transition may clear.
type Field string

const (
	FieldGuestName        Field = "guest_name"
	FieldGuestID          Field = "guest_id"
	FieldIDScanned        Field = "id_scanned"
	FieldCheckInDate      Field = "check_in_date"
	FieldCheckInTime      Field = "check_in_time"
	FieldCheckOutDate     Field = "check_out_date"
	FieldCheckOutTime     Field = "check_out_time"
	FieldBookingSource    Field = "booking_source"
	FieldMaintenanceIssue Field = "maintenance_issue"
	FieldSalePrice        Field = "sale_price"
)

// guestClearSet is everything a departing (or cancelled) guest leaves
// behind. Check-out and reservation cancellation share it so no guest
// data leaks into the next stay.
var guestClearSet = []Field{
	FieldGuestName,
	FieldGuestID,
	FieldIDScanned,
	FieldCheckInDate,
	FieldCheckInTime,
	FieldCheckOutDate,
	FieldCheckOutTime,
	FieldBookingSource,
	FieldMaintenanceIssue,
	FieldSalePrice,
}

// Result is the outcome of a transition: the new room snapshot with
// history already prepended, the entries that were added, and the exact
// set of fields cleared.
type Result struct {
	Room    models.Room
	Entries []models.HistoryEntry
	Cleared []Field
	Trigger Trigger
}

// Apply moves the room to the requested status. The named cases of the
// transition table get their specific history entries and clear sets; any
// other pair of distinct statuses is a manual override logged as a plain
// status change. Requesting the current status is a no-op.
//
// The input room is never mutated; the returned snapshot is a deep copy.
func Apply(room models.Room, target string, now time.Time) Result {
	out := room.Clone()
	res := Result{Trigger: TriggerNone}

	from := room.Status
	switch {
	case from == target:
		// no-op

	case from == models.StatusDirty && target == models.StatusAvailable:
		res.Trigger = TriggerMarkClean
		res.Entries = append(res.Entries, newEntry(models.HistoryStatusChange, "Room cleaned and ready", now))

	case from == models.StatusDirty && target == models.StatusMaintenance:
		res.Trigger = TriggerStartMaintenance
		res.Entries = append(res.Entries, newEntry(models.HistoryStatusChange, "Maintenance started", now))

	case from == models.StatusOccupied && target == models.StatusDirty:
		res.Trigger = TriggerCheckOut
		// capture the guest before the clear set wipes the field
		res.Entries = append(res.Entries, newEntry(models.HistoryCheckOut, fmt.Sprintf("Check-out: %s", room.GuestName), now))
		res.Cleared = clearFields(&out, guestClearSet)

	case from == models.StatusReserved && target == models.StatusOccupied:
		res.Trigger = TriggerCheckIn

	case from == models.StatusReserved && target == models.StatusAvailable:
		res.Trigger = TriggerCancelReservation
		res.Entries = append(res.Entries, newEntry(models.HistoryStatusChange, "Reservation Cancelled", now))
		res.Cleared = clearFields(&out, guestClearSet)

	case from == models.StatusAvailable && target == models.StatusOccupied:
		res.Trigger = TriggerCheckIn
		res.Entries = append(res.Entries, newEntry(models.HistoryCheckIn, fmt.Sprintf("Check-in: %s (%s)", room.GuestName, stayMode(room)), now))

	default:
		res.Trigger = TriggerManualOverride
		res.Entries = append(res.Entries, newEntry(models.HistoryStatusChange, fmt.Sprintf("%s -> %s", from, target), now))
	}

	out.Status = target
	out.UpdatedAt = now
	for _, entry := range res.Entries {
		out.History = models.PrependHistory(out.History, entry)
	}

	res.Room = out
	return res
}

// GuestUpdateEntry is the additive INFO entry appended when guest details
// change on a room that stays Occupied. It never replaces a status-change
// entry; both may land in the same save.
func GuestUpdateEntry(guestName string, now time.Time) models.HistoryEntry {
	return newEntry(models.HistoryInfo, fmt.Sprintf("Guest details updated: %s", guestName), now)
}

func stayMode(room models.Room) string {
	if room.Hourly {
		return "hourly"
	}
	return "standard"
}

func newEntry(kind, description string, now time.Time) models.HistoryEntry {
	return models.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   now,
		Kind:        kind,
		Description: description,
	}
}

func clearFields(room *models.Room, fields []Field) []Field {
	for _, f := range fields {
		switch f {
		case FieldGuestName:
			room.GuestName = ""
		case FieldGuestID:
			room.GuestID = 0
		case FieldIDScanned:
			room.IDScanned = false
		case FieldCheckInDate:
			room.CheckInDate = ""
		case FieldCheckInTime:
			room.CheckInTime = ""
		case FieldCheckOutDate:
			room.CheckOutDate = ""
		case FieldCheckOutTime:
			room.CheckOutTime = ""
		case FieldBookingSource:
			room.BookingSource = ""
		case FieldMaintenanceIssue:
			room.MaintenanceIssue = ""
		case FieldSalePrice:
			room.SalePrice = 0
		}
	}
	return fields
}
