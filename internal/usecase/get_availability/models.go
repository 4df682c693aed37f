package get_availability

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BarberID  int64     // ID барбера
	ServiceID int64     // ID услуги (определяет длительность)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	BarberID        int64     // ID барбера
	ServiceID       int64     // ID услуги
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Сетка слотов с признаком доступности
}

// Slot модель временного слота.
// Производная величина: пересчитывается на каждый запрос и не кешируется,
// занятость может измениться между чтениями.
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность услуги в минутах
	Available       bool             // Доступен ли слот для бронирования
	ConflictReason  string           // Причина недоступности (пустая для доступных)
}
