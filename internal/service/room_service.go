package service

import (
	"context"
	"time"

	"frontdesk/internal/availability"
	"frontdesk/internal/database"
	"frontdesk/internal/domain"
	"frontdesk/internal/events"
	"frontdesk/internal/metrics"
	"frontdesk/internal/models"
	"frontdesk/internal/workflow"

	"github.com/rs/zerolog"
)

// SaveOptions carries the caller-side knobs of a room save. Force is
// advisory: the desk clerk confirmed an overbooking and the save must
// go through despite a detected conflict.
type SaveOptions struct {
	Force     bool
	ChangedBy string
}

type RoomService struct {
	store       domain.Store
	cache       domain.RoomCache
	eventBus    domain.EventPublisher
	checkInDef  string
	checkOutDef string
	maxStayDays int
	logger      *zerolog.Logger
}

func NewRoomService(store domain.Store, cache domain.RoomCache, eventBus domain.EventPublisher, checkInDef, checkOutDef string, maxStayDays int, logger *zerolog.Logger) *RoomService {
	if checkInDef == "" {
		checkInDef = models.DefaultCheckInTime
	}
	if checkOutDef == "" {
		checkOutDef = models.DefaultCheckOutTime
	}
	if maxStayDays <= 0 {
		maxStayDays = models.MaxStayDays
	}
	return &RoomService{
		store:       store,
		cache:       cache,
		eventBus:    eventBus,
		checkInDef:  checkInDef,
		checkOutDef: checkOutDef,
		maxStayDays: maxStayDays,
		logger:      logger,
	}
}

// GetRoom reads through the cache. A miss or cache error falls through
// to the store and refills the cache.
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	if s.cache != nil {
		room, err := s.cache.GetRoom(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("room_id", id).Msg("room cache read failed")
		}
		if room != nil {
			return room, nil
		}
	}

	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheRoom(ctx, room)
	return room, nil
}

func (s *RoomService) GetRoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	return s.store.GetRoomByNumber(ctx, number)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.store.ListRooms(ctx)
}

// CheckAvailability answers the date-granularity question for a single
// room: can a guest stay from checkIn to checkOut? When the bookings
// store is reachable the full booking list decides; otherwise the
// room's own snapshot (current stay plus upcoming reservation) decides.
func (s *RoomService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut string) (bool, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return !s.detectConflict(ctx, room, checkIn, checkOut, "", false), nil
}

// SaveRoom is the single write path for room edits from the dashboard.
// The caller sends the full desired snapshot; history and version are
// taken from the stored room, never from the request.
//
// Order matters: conflict detection runs before anything is persisted,
// and a detected conflict aborts the save unless opts.Force is set.
func (s *RoomService) SaveRoom(ctx context.Context, updated *models.Room, opts SaveOptions) (*models.Room, error) {
	current, err := s.store.GetRoom(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	next := updated.Clone()
	next.Number = current.Number
	next.History = current.History
	next.Version = current.Version
	next.CreatedAt = current.CreatedAt

	now := time.Now()
	res := workflow.Apply(replaceStatus(next, current.Status), next.Status, now)

	// A guest-detail edit on an occupied room that stays occupied gets
	// an additive INFO entry; it never replaces the transition entry.
	if current.Status == models.StatusOccupied && next.Status == models.StatusOccupied &&
		next.GuestName != "" && next.GuestName != current.GuestName {
		res.Room.History = models.PrependHistory(res.Room.History, workflow.GuestUpdateEntry(next.GuestName, now))
	}

	next = res.Room

	if next.HasCurrentStay() {
		// the proposed range sits in next's own stay fields, so the stay
		// must not be compared against itself; excludeKey drops the
		// matching booking row when an occupied room's stay is edited
		if s.detectConflict(ctx, &next, next.CheckInDate, next.CheckOutDate, excludeKey(current), true) {
			if !opts.Force {
				return nil, database.ErrBookingConflict
			}
			metrics.IncForcedSave()
			s.publishRoomEvent(events.EventBookingForced, current, &next, res.Trigger, opts)
			s.logger.Warn().
				Int64("room_id", next.ID).
				Str("room", next.Number).
				Str("changed_by", opts.ChangedBy).
				Msg("conflicting booking saved with force")
		}
	}

	if err := s.store.UpdateRoomWithVersion(ctx, &next); err != nil {
		return nil, err
	}

	if res.Trigger != workflow.TriggerNone {
		metrics.IncTransition(string(res.Trigger))
	}
	s.recordBooking(ctx, current, &next, res.Trigger, opts)
	s.cacheRoom(ctx, &next)
	s.publishTransition(current, &next, res.Trigger, opts)

	return &next, nil
}

// Transition is the one-click path: same workflow as SaveRoom but the
// only requested change is the target status.
func (s *RoomService) Transition(ctx context.Context, roomID int64, target string, opts SaveOptions) (*models.Room, error) {
	current, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Status = target
	return s.SaveRoom(ctx, &next, opts)
}

func (s *RoomService) MarkClean(ctx context.Context, roomID int64, opts SaveOptions) (*models.Room, error) {
	return s.Transition(ctx, roomID, models.StatusAvailable, opts)
}

func (s *RoomService) StartMaintenance(ctx context.Context, roomID int64, issue string, opts SaveOptions) (*models.Room, error) {
	current, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Status = models.StatusMaintenance
	next.MaintenanceIssue = issue
	return s.SaveRoom(ctx, &next, opts)
}

// CheckIn moves a room to Occupied. For a reserved room the reservation
// details fill any field the caller left empty.
func (s *RoomService) CheckIn(ctx context.Context, roomID int64, guestName, checkInDate, checkOutDate string, hourly bool, opts SaveOptions) (*models.Room, error) {
	current, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next.Status = models.StatusOccupied
	next.GuestName = guestName
	next.CheckInDate = checkInDate
	next.CheckOutDate = checkOutDate
	next.Hourly = hourly

	if res := current.UpcomingReservation; res != nil && current.Status == models.StatusReserved {
		if next.GuestName == "" {
			next.GuestName = res.GuestName
		}
		if next.CheckInDate == "" {
			next.CheckInDate = res.CheckInDate
		}
		if next.CheckOutDate == "" {
			next.CheckOutDate = res.CheckOutDate
		}
		next.UpcomingReservation = nil
	}

	return s.SaveRoom(ctx, &next, opts)
}

func (s *RoomService) CheckOut(ctx context.Context, roomID int64, opts SaveOptions) (*models.Room, error) {
	return s.Transition(ctx, roomID, models.StatusDirty, opts)
}

func (s *RoomService) CancelReservation(ctx context.Context, roomID int64, opts SaveOptions) (*models.Room, error) {
	return s.Transition(ctx, roomID, models.StatusAvailable, opts)
}

// ActiveBookings lists the room's non-cancelled booking rows.
func (s *RoomService) ActiveBookings(ctx context.Context, roomID int64) ([]models.Booking, error) {
	return s.store.GetActiveBookingsForRoom(ctx, roomID)
}

// detectConflict picks the conflict path. The bookings store is
// authoritative when it is reachable and holds rows for the room:
// instant-granularity comparison over the full active booking list.
// When the list cannot be read (local fallback mode), or it comes back
// empty — a reservation lives only on the room snapshot until check-in,
// so an empty list proves nothing — the date-granularity check against
// the room snapshot answers instead.
func (s *RoomService) detectConflict(ctx context.Context, room *models.Room, checkIn, checkOut string, exclude string, ignoreCurrentStay bool) bool {
	if checkIn == "" || checkOut == "" {
		return false
	}

	bookings, err := s.store.GetActiveBookingsForRoom(ctx, room.ID)
	if err == nil && len(bookings) > 0 {
		newStart, perr := availability.ResolveInstant(checkIn, room.CheckInTime, s.checkInDef)
		if perr != nil {
			return false
		}
		newEnd, perr := availability.ResolveInstant(checkOut, room.CheckOutTime, s.checkOutDef)
		if perr != nil {
			return false
		}
		if ignoreCurrentStay && exclude != "" {
			bookings = withoutStay(bookings, exclude)
		}
		if !availability.IsTimeSlotAvailable(bookings, newStart, newEnd) {
			metrics.IncConflict("bookings")
			return true
		}
		return false
	}

	if err != nil {
		s.logger.Warn().Err(err).Int64("room_id", room.ID).Msg("bookings store unreachable, using room snapshot for conflict check")
	}
	if availability.HasBookingConflict(room, checkIn, checkOut, ignoreCurrentStay) {
		metrics.IncConflict("cache")
		return true
	}
	return false
}

// recordBooking writes the booking row behind a completed check-in.
// Failures are logged, never surfaced: the room save already happened
// and the desk must not see an error for a ledger-side miss.
func (s *RoomService) recordBooking(ctx context.Context, current, next *models.Room, trigger workflow.Trigger, opts SaveOptions) {
	if trigger != workflow.TriggerCheckIn || next.GuestName == "" || !next.HasCurrentStay() {
		return
	}

	startAt, err := availability.ResolveInstant(next.CheckInDate, next.CheckInTime, s.checkInDef)
	if err != nil {
		s.logger.Error().Err(err).Int64("room_id", next.ID).Msg("cannot resolve booking start")
		return
	}
	endAt, err := availability.ResolveInstant(next.CheckOutDate, next.CheckOutTime, s.checkOutDef)
	if err != nil {
		s.logger.Error().Err(err).Int64("room_id", next.ID).Msg("cannot resolve booking end")
		return
	}

	booking := &models.Booking{
		RoomID:     next.ID,
		RoomNumber: next.Number,
		GuestName:  next.GuestName,
		StartAt:    startAt,
		EndAt:      endAt,
		Type:       bookingType(next),
		Status:     models.BookingCheckedIn,
		Source:     next.BookingSource,
		SalePrice:  next.SalePrice,
	}

	if guest, gerr := s.store.GetOrCreateGuest(ctx, next.GuestName); gerr == nil {
		booking.GuestID = guest.ID
	} else {
		s.logger.Warn().Err(gerr).Str("guest", next.GuestName).Msg("guest lookup failed")
	}

	if opts.Force {
		err = s.store.CreateBooking(ctx, booking)
	} else {
		err = s.store.CreateBookingWithGuard(ctx, booking)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("room_id", next.ID).Msg("failed to record booking")
		return
	}

	if s.eventBus != nil {
		if perr := s.eventBus.PublishJSON(events.EventBookingRecorded, events.RoomEventPayload{
			RoomID:     next.ID,
			RoomNumber: next.Number,
			ToStatus:   next.Status,
			GuestName:  next.GuestName,
			Forced:     opts.Force,
			ChangedBy:  opts.ChangedBy,
		}); perr != nil {
			s.logger.Error().Err(perr).Msg("publish event error")
		}
	}
}

func (s *RoomService) publishTransition(current, next *models.Room, trigger workflow.Trigger, opts SaveOptions) {
	var eventType string
	switch trigger {
	case workflow.TriggerNone:
		return
	case workflow.TriggerCheckIn:
		eventType = events.EventRoomCheckedIn
	case workflow.TriggerCheckOut:
		eventType = events.EventRoomCheckedOut
	default:
		eventType = events.EventRoomStatusChanged
	}
	s.publishRoomEvent(eventType, current, next, trigger, opts)
}

func (s *RoomService) publishRoomEvent(eventType string, current, next *models.Room, trigger workflow.Trigger, opts SaveOptions) {
	if s.eventBus == nil {
		return
	}

	guestName := next.GuestName
	if guestName == "" {
		guestName = current.GuestName
	}
	payload := events.RoomEventPayload{
		RoomID:     next.ID,
		RoomNumber: next.Number,
		FromStatus: current.Status,
		ToStatus:   next.Status,
		GuestName:  guestName,
		Trigger:    string(trigger),
		Forced:     opts.Force,
		ChangedBy:  opts.ChangedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("room_id", next.ID).Msg("publish event error")
	}
}

func (s *RoomService) cacheRoom(ctx context.Context, room *models.Room) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetRoom(ctx, room); err != nil {
		s.logger.Warn().Err(err).Int64("room_id", room.ID).Msg("room cache write failed")
	}
}

func replaceStatus(room models.Room, status string) models.Room {
	room.Status = status
	return room
}

func bookingType(room *models.Room) string {
	if room.Hourly {
		return models.BookingTypeHourly
	}
	return models.BookingTypeStandard
}

// excludeKey identifies the room's current stay inside its booking
// list so editing an occupied room does not collide with itself.
func excludeKey(room *models.Room) string {
	if room.Status != models.StatusOccupied || !room.HasCurrentStay() {
		return ""
	}
	return room.GuestName + "|" + room.CheckInDate
}

func withoutStay(bookings []models.Booking, key string) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.GuestName+"|"+b.StartAt.Format(models.DateFormat) == key {
			continue
		}
		out = append(out, b)
	}
	return out
}
