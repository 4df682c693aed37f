package book_appointment

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BarberID       int64            // ID барбера
	ServiceID      int64            // ID услуги (определяет длительность и цену)
	CustomerUserID int64            // ID клиента (из заголовка аутентификации)
	CustomerName   string           // Имя клиента
	CustomerPhone  string           // Телефон клиента
	Date           time.Time        // Дата записи (без времени)
	StartTime      types.TimeString // Время начала (например, "10:00")
	Notes          *string          // Пожелания клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	Reference       string // публичный код бронирования
	BarberID        int64
	ServiceID       int64
	CustomerUserID  int64
	CustomerName    string
	CustomerPhone   string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	ServiceName     string
	ServicePrice    float64
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
