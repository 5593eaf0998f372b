// Package availability decides whether a proposed stay interval overlaps
// an existing claim on a room. All checks are pure functions over
// caller-supplied snapshots; nothing here touches storage.
//
// Two non-equivalent paths exist on purpose:
//
//   - HasBookingConflict works at date granularity against the commitments
//     embedded on the room itself (current stay, the single cached upcoming
//     reservation). It is the offline path, used when the booking store is
//     unreachable or empty.
//   - IsTimeSlotAvailable works at minute granularity against a full list
//     of booking rows. It is the authoritative path, used when the store
//     answered with rows.
//
// The caller selects the path explicitly; see service.RoomService.
package availability

import (
	"time"

	"frontdesk/internal/models"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent intervals, one ending exactly when
// the other begins, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ResolveInstant combines a YYYY-MM-DD date with an HH:MM clock into a
// process-local instant. When clock is empty, def is used (14:00 for
// check-in bounds, 12:00 for check-out bounds).
func ResolveInstant(date, clock, def string) (time.Time, error) {
	if clock == "" {
		clock = def
	}
	return time.ParseInLocation(models.DateFormat+" "+models.TimeFormat, date+" "+clock, time.Local)
}

// HasBookingConflict checks a proposed date range against the room's own
// commitments: the current stay (unless ignored, for edits of that very
// stay) and the cached upcoming reservation. Missing dates or a
// non-positive range yield false; rejecting invalid input is the caller's
// job, not a conflict.
func HasBookingConflict(room *models.Room, newCheckIn, newCheckOut string, ignoreCurrentStay bool) bool {
	if room == nil || newCheckIn == "" || newCheckOut == "" {
		return false
	}

	start, err := time.ParseInLocation(models.DateFormat, newCheckIn, time.Local)
	if err != nil {
		return false
	}
	end, err := time.ParseInLocation(models.DateFormat, newCheckOut, time.Local)
	if err != nil {
		return false
	}
	if !start.Before(end) {
		return false
	}

	if !ignoreCurrentStay && room.Status == models.StatusOccupied && room.HasCurrentStay() {
		stayStart, errIn := time.ParseInLocation(models.DateFormat, room.CheckInDate, time.Local)
		stayEnd, errOut := time.ParseInLocation(models.DateFormat, room.CheckOutDate, time.Local)
		if errIn == nil && errOut == nil && Overlaps(start, end, stayStart, stayEnd) {
			return true
		}
	}

	if res := room.UpcomingReservation; res != nil {
		resStart, errIn := time.ParseInLocation(models.DateFormat, res.CheckInDate, time.Local)
		resEnd, errOut := time.ParseInLocation(models.DateFormat, res.CheckOutDate, time.Local)
		if errIn == nil && errOut == nil && Overlaps(start, end, resStart, resEnd) {
			return true
		}
	}

	return false
}

// IsTimeSlotAvailable checks a proposed interval of absolute instants
// against every booking that still claims its slot. Cancelled bookings
// are skipped. The result does not depend on list order.
func IsTimeSlotAvailable(bookings []models.Booking, newStart, newEnd time.Time) bool {
	for i := range bookings {
		b := &bookings[i]
		if !b.Active() {
			continue
		}
		if Overlaps(newStart, newEnd, b.StartAt, b.EndAt) {
			return false
		}
	}
	return true
}
