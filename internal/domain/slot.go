package domain

import "github.com/sharpcut/SC-SchedulingService/pkg/types"

// Slot кандидат времени начала записи с признаком доступности.
// Вычисляется на каждый запрос и никогда не персистится и не кешируется:
// занятость может измениться между чтениями.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
	// ConflictReason человекочитаемая причина недоступности
	// (название услуги и интервал занявшей записи), пустая для доступных слотов
	ConflictReason string
}
