package domain

// DefaultSlotGranularityMinutes шаг сетки слотов, если не задан в конфигурации.
// Глубина бронирования и минимальное уведомление по умолчанию нулевые
// (без ограничений), отдельные константы для них не нужны.
const DefaultSlotGranularityMinutes = 30

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxCustomerNameLength       = 200
	MaxCustomerPhoneLength      = 32
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы записей, занимающих время в календаре
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
