package domain

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// WorkHour recurring working interval of a barber for one weekday.
// At most one row per (barber, weekday); start is strictly before end.
type WorkHour struct {
	ID        int64
	BarberID  int64
	Weekday   int // 0 = Sunday ... 6 = Saturday, как time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BreakKind тип перерыва
type BreakKind string

const (
	BreakKindLunch    BreakKind = "lunch"
	BreakKindCleaning BreakKind = "cleaning"
	BreakKindPersonal BreakKind = "personal"
)

// Break recurring non-bookable sub-interval inside a barber's work hours.
// Multiple breaks per weekday are allowed; overlapping rows are tolerated
// and unioned by the calendar resolution.
type Break struct {
	ID        int64
	BarberID  int64
	Weekday   int
	StartTime types.TimeString
	EndTime   types.TimeString
	Kind      BreakKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleException one-off override for a specific calendar date.
// isClosed=true zeroes out availability for the date regardless of work hours.
// Partial-day exceptions are not supported.
type ScheduleException struct {
	ID        int64
	BarberID  int64
	Date      time.Time
	IsClosed  bool
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaySchedule расписание барбера на конкретный день недели:
// рабочий интервал и перерывы. Отсутствующий WorkHour означает выходной.
type DaySchedule struct {
	WorkHour *WorkHour
	Breaks   []*Break
}

// IsWorkingDay возвращает true, если у барбера есть рабочие часы в этот день
func (d *DaySchedule) IsWorkingDay() bool {
	return d.WorkHour != nil
}
