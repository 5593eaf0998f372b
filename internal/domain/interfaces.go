package domain

import (
	"context"
	"time"

	"frontdesk/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Store is the persistent storage surface used by the service layer.
type Store interface {
	SeedRooms(ctx context.Context, rooms []models.Room) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetRoomByNumber(ctx context.Context, number string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoomWithVersion(ctx context.Context, room *models.Room) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateBookingWithGuard(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetActiveBookingsForRoom(ctx context.Context, roomID int64) ([]models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id int64, version int64, status string) error

	GetOrCreateGuest(ctx context.Context, fullName string) (*models.Guest, error)

	AddCashEntry(ctx context.Context, entry *models.CashEntry) error
	ListCashEntries(ctx context.Context, start, end time.Time) ([]models.CashEntry, error)
	CashBalance(ctx context.Context) (float64, error)

	ClockIn(ctx context.Context, staffName string, at time.Time) (*models.TimeEntry, error)
	ClockOut(ctx context.Context, staffName string, at time.Time) (*models.TimeEntry, error)
	GetOpenTimeEntry(ctx context.Context, staffName string) (*models.TimeEntry, error)
	ListTimeEntries(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error)

	CreateNote(ctx context.Context, note *models.Note) error
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id int64) error
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// RoomCache holds serialized room snapshots so the dashboard and the
// conflict check can read without touching the database on every call.
// GetRoom returns (nil, nil) on a cache miss.
type RoomCache interface {
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	SetRoom(ctx context.Context, room *models.Room) error
	Invalidate(ctx context.Context, id int64) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SheetsWriter mirrors daily reports to a shared spreadsheet.
type SheetsWriter interface {
	UpdateOccupancySheet(ctx context.Context, date time.Time, rooms []*models.Room) error
	AppendCashEntries(ctx context.Context, entries []models.CashEntry) error
}

// ExportWorker queues report builds out of the request path.
type ExportWorker interface {
	EnqueueLedgerExport(ctx context.Context, start, end time.Time) error
	EnqueueOccupancyExport(ctx context.Context, date time.Time) error
}
