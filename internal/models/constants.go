package models

// Room lifecycle statuses. A room holds exactly one at a time.
const (
	StatusAvailable   = "AVAILABLE"
	StatusOccupied    = "OCCUPIED"
	StatusDirty       = "DIRTY"
	StatusMaintenance = "MAINTENANCE"
	StatusReserved    = "RESERVED"
)

// Booking lifecycle statuses.
const (
	BookingCheckedIn = "CHECKED_IN"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
	BookingNoShow    = "NO_SHOW"
)

// Booking types.
const (
	BookingTypeStandard = "STANDARD"
	BookingTypeHourly   = "HOURLY"
)

// History entry kinds.
const (
	HistoryCheckIn      = "CHECK_IN"
	HistoryCheckOut     = "CHECK_OUT"
	HistoryStatusChange = "STATUS_CHANGE"
	HistoryInfo         = "INFO"
)

// Petty-cash entry kinds.
const (
	CashIn  = "IN"
	CashOut = "OUT"
)

// Wire formats shared with the dashboard. These are a de facto contract
// and must not change.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Default clock times applied when a stay bound carries a date only.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "12:00"
)

const (
	// DefaultRoomCacheTTL время жизни снапшота комнаты в Redis
	DefaultRoomCacheTTL = 24 * 60 * 60 // 24 часа в секундах

	// MaxStayDays верхний предел длительности проживания
	MaxStayDays = 365

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 1000

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 20

	// RateLimitWindow окно ограничения частоты запросов
	RateLimitWindow = 60 // 1 минута в секундах
)
