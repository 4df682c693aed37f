package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name        string
		intervals   []Interval
		granularity int
		duration    int
		want        []int
	}{
		{
			name:        "single window exact fit",
			intervals:   []Interval{{Start: 600, End: 720}}, // 10:00-12:00
			granularity: 30,
			duration:    30,
			want:        []int{600, 630, 660, 690},
		},
		{
			name:        "duration overrunning the window is filtered",
			intervals:   []Interval{{Start: 600, End: 720}},
			granularity: 30,
			duration:    45,
			want:        []int{600, 630, 660}, // 11:30+45 > 12:00
		},
		{
			name: "candidates never span across a break",
			intervals: []Interval{
				{Start: 540, End: 720},  // 09:00-12:00
				{Start: 780, End: 1080}, // 13:00-18:00
			},
			granularity: 30,
			duration:    60,
			// последний слот первого окна - 11:00 (11:30+60 перешагнул бы перерыв)
			want: []int{540, 570, 600, 630, 660, 780, 810, 840, 870, 900, 930, 960, 990, 1020},
		},
		{
			name:        "window smaller than duration yields nothing",
			intervals:   []Interval{{Start: 600, End: 620}},
			granularity: 30,
			duration:    30,
			want:        []int{},
		},
		{
			name:        "no windows",
			intervals:   nil,
			granularity: 30,
			duration:    30,
			want:        []int{},
		},
		{
			name:        "ascending and stable across windows",
			intervals:   []Interval{{Start: 540, End: 600}, {Start: 660, End: 720}},
			granularity: 15,
			duration:    30,
			want:        []int{540, 555, 570, 660, 675, 690},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.intervals, tt.granularity, tt.duration)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCandidates_InvalidParams(t *testing.T) {
	intervals := []Interval{{Start: 540, End: 1080}}
	assert.Nil(t, Candidates(intervals, 0, 30))
	assert.Nil(t, Candidates(intervals, 30, 0))
	assert.Nil(t, Candidates(intervals, -30, 30))
}

func TestAlignedToGranularity(t *testing.T) {
	intervals := []Interval{
		{Start: 540, End: 720},  // 09:00-12:00
		{Start: 780, End: 1080}, // 13:00-18:00
	}

	assert.True(t, AlignedToGranularity(intervals, 540, 30))  // 09:00
	assert.True(t, AlignedToGranularity(intervals, 810, 30))  // 13:30
	assert.False(t, AlignedToGranularity(intervals, 555, 30)) // 09:15 мимо сетки
	assert.False(t, AlignedToGranularity(intervals, 750, 30)) // 12:30 внутри перерыва
	assert.False(t, AlignedToGranularity(intervals, 1080, 30)) // ровно конец окна
	assert.False(t, AlignedToGranularity(intervals, 540, 0))
}
