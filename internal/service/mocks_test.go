package service

import (
	"context"
	"time"

	"frontdesk/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SeedRooms(ctx context.Context, rooms []models.Room) error {
	return m.Called(ctx, rooms).Error(0)
}
func (m *mockStore) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockStore) GetRoomByNumber(ctx context.Context, n string) (*models.Room, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockStore) ListRooms(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}
func (m *mockStore) CreateRoom(ctx context.Context, r *models.Room) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockStore) UpdateRoomWithVersion(ctx context.Context, r *models.Room) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockStore) CreateBookingWithGuard(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockStore) GetActiveBookingsForRoom(ctx context.Context, roomID int64) ([]models.Booking, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) GetBookingsByDateRange(ctx context.Context, s, e time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) UpdateBookingStatusWithVersion(ctx context.Context, id, v int64, s string) error {
	return m.Called(ctx, id, v, s).Error(0)
}
func (m *mockStore) GetOrCreateGuest(ctx context.Context, name string) (*models.Guest, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guest), args.Error(1)
}
func (m *mockStore) AddCashEntry(ctx context.Context, e *models.CashEntry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockStore) ListCashEntries(ctx context.Context, s, e time.Time) ([]models.CashEntry, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CashEntry), args.Error(1)
}
func (m *mockStore) CashBalance(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
func (m *mockStore) ClockIn(ctx context.Context, n string, at time.Time) (*models.TimeEntry, error) {
	args := m.Called(ctx, n, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}
func (m *mockStore) ClockOut(ctx context.Context, n string, at time.Time) (*models.TimeEntry, error) {
	args := m.Called(ctx, n, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}
func (m *mockStore) GetOpenTimeEntry(ctx context.Context, n string) (*models.TimeEntry, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}
func (m *mockStore) ListTimeEntries(ctx context.Context, s, e time.Time) ([]models.TimeEntry, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TimeEntry), args.Error(1)
}
func (m *mockStore) CreateNote(ctx context.Context, n *models.Note) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockStore) UpdateNote(ctx context.Context, n *models.Note) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockStore) DeleteNote(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Note), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockCache) SetRoom(ctx context.Context, r *models.Room) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockCache) Invalidate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockCache) CheckRateLimit(ctx context.Context, k string, l int, w time.Duration) (bool, error) {
	args := m.Called(ctx, k, l, w)
	return args.Bool(0), args.Error(1)
}

type mockBus struct {
	mock.Mock
}

func (m *mockBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockWorker struct {
	mock.Mock
}

func (m *mockWorker) EnqueueLedgerExport(ctx context.Context, s, e time.Time) error {
	return m.Called(ctx, s, e).Error(0)
}
func (m *mockWorker) EnqueueOccupancyExport(ctx context.Context, d time.Time) error {
	return m.Called(ctx, d).Error(0)
}
