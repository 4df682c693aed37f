package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

func appt(start types.TimeString, duration int, status domain.AppointmentStatus, service string) *domain.Appointment {
	return &domain.Appointment{
		BarberID:        1,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
		ServiceName:     service,
	}
}

func TestOccupancyIndex_Overlaps(t *testing.T) {
	idx, err := NewOccupancyIndex([]*domain.Appointment{
		appt("10:00", 30, domain.StatusConfirmed, "Haircut"),
		appt("14:00", 60, domain.StatusPending, "Beard Trim"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	tests := []struct {
		name      string
		start     int
		end       int
		wantLabel string
	}{
		{name: "full overlap", start: 600, end: 630, wantLabel: "Haircut"},
		{name: "partial overlap from the left", start: 590, end: 615, wantLabel: "Haircut"},
		{name: "partial overlap from the right", start: 615, end: 645, wantLabel: "Haircut"},
		{name: "candidate containing occupied", start: 590, end: 700, wantLabel: "Haircut"},
		{name: "pending also occupies", start: 870, end: 900, wantLabel: "Beard Trim"},
		{name: "back-to-back before is free", start: 570, end: 600},
		{name: "back-to-back after is free", start: 630, end: 660},
		{name: "gap between appointments is free", start: 660, end: 690},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Overlaps(tt.start, tt.end)
			if tt.wantLabel == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestOccupancyIndex_NonOccupyingStatusesAreSkipped(t *testing.T) {
	idx, err := NewOccupancyIndex([]*domain.Appointment{
		appt("10:00", 30, domain.StatusCancelled, "Haircut"),
		appt("11:00", 30, domain.StatusNoShow, "Haircut"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Overlaps(600, 630))
	assert.Nil(t, idx.Overlaps(660, 690))
}

func TestOccupancyIndex_ReturnsFirstOverlapByStart(t *testing.T) {
	// Интервалы подаются не по порядку - индекс сортирует сам
	idx, err := NewOccupancyIndex([]*domain.Appointment{
		appt("11:00", 30, domain.StatusConfirmed, "Shave"),
		appt("10:00", 90, domain.StatusCompleted, "Coloring"),
	})
	require.NoError(t, err)

	got := idx.Overlaps(600, 720)
	require.NotNil(t, got)
	assert.Equal(t, "Coloring", got.Label)
}

func TestOccupiedInterval_Describe(t *testing.T) {
	occ := OccupiedInterval{
		Interval: Interval{Start: 600, End: 630},
		Label:    "Haircut",
	}
	assert.Equal(t, "Haircut (10:00-10:30)", occ.Describe())

	unnamed := OccupiedInterval{Interval: Interval{Start: 600, End: 630}}
	assert.Equal(t, "10:00-10:30", unnamed.Describe())
}
