package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

func workHour(start, end types.TimeString) *domain.WorkHour {
	return &domain.WorkHour{ID: 1, BarberID: 1, Weekday: 1, StartTime: start, EndTime: end}
}

func brk(start, end types.TimeString) *domain.Break {
	return &domain.Break{BarberID: 1, Weekday: 1, StartTime: start, EndTime: end, Kind: domain.BreakKindLunch}
}

func TestResolveDay(t *testing.T) {
	tests := []struct {
		name      string
		schedule  domain.DaySchedule
		exception *domain.ScheduleException
		want      []Interval
	}{
		{
			name: "plain work day without breaks",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
			},
			want: []Interval{{Start: 540, End: 1080}},
		},
		{
			name: "lunch break splits the day",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("12:00", "13:00")},
			},
			want: []Interval{{Start: 540, End: 720}, {Start: 780, End: 1080}},
		},
		{
			name: "closed exception wins over work hours",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
			},
			exception: &domain.ScheduleException{IsClosed: true},
			want:      nil,
		},
		{
			name: "open exception does not affect the day",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "12:00"),
			},
			exception: &domain.ScheduleException{IsClosed: false},
			want:      []Interval{{Start: 540, End: 720}},
		},
		{
			name:     "no work hours for the weekday",
			schedule: domain.DaySchedule{},
			want:     nil,
		},
		{
			name: "break covering the whole window closes the day",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("09:00", "18:00")},
			},
			want: nil,
		},
		{
			name: "break exceeding the window closes the day",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("08:00", "19:00")},
			},
			want: nil,
		},
		{
			name: "break entirely outside the window is ignored",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("19:00", "20:00")},
			},
			want: []Interval{{Start: 540, End: 1080}},
		},
		{
			name: "break partially outside is clipped",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("17:00", "19:00")},
			},
			want: []Interval{{Start: 540, End: 1020}},
		},
		{
			name: "overlapping breaks are unioned before subtraction",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks: []*domain.Break{
					brk("12:00", "13:00"),
					brk("12:30", "13:30"),
				},
			},
			want: []Interval{{Start: 540, End: 720}, {Start: 810, End: 1080}},
		},
		{
			name: "touching breaks merge into one cut",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks: []*domain.Break{
					brk("12:00", "12:30"),
					brk("12:30", "13:00"),
				},
			},
			want: []Interval{{Start: 540, End: 720}, {Start: 780, End: 1080}},
		},
		{
			name: "two disjoint breaks yield three windows",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks: []*domain.Break{
					brk("15:00", "15:30"),
					brk("12:00", "13:00"),
				},
			},
			want: []Interval{
				{Start: 540, End: 720},
				{Start: 780, End: 900},
				{Start: 930, End: 1080},
			},
		},
		{
			name: "break at the start of the day shifts the window",
			schedule: domain.DaySchedule{
				WorkHour: workHour("09:00", "18:00"),
				Breaks:   []*domain.Break{brk("09:00", "10:00")},
			},
			want: []Interval{{Start: 600, End: 1080}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDay(tt.schedule, tt.exception)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDay_InvalidWorkHour(t *testing.T) {
	schedule := domain.DaySchedule{
		WorkHour: workHour("18:00", "09:00"),
	}
	_, err := ResolveDay(schedule, nil)
	assert.Error(t, err)
}

func TestResolveDay_ClosedExceptionIsTerminal(t *testing.T) {
	// Даже некорректное расписание не вычисляется, если день закрыт
	schedule := domain.DaySchedule{
		WorkHour: workHour("18:00", "09:00"),
	}
	exception := &domain.ScheduleException{
		Date:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		IsClosed: true,
	}
	got, err := ResolveDay(schedule, exception)
	require.NoError(t, err)
	assert.Empty(t, got)
}
