package scheduling

import (
	"fmt"
	"sort"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// OccupiedInterval занятый интервал календаря с коротким описанием
// занявшей записи (название услуги) для сообщений о конфликте
type OccupiedInterval struct {
	Interval
	Label string
}

// Describe возвращает человекочитаемое описание занятого интервала,
// например "Haircut (10:00-10:30)"
func (o OccupiedInterval) Describe() string {
	start, _ := types.NewTimeStringFromMinutes(o.Start)
	end, _ := types.NewTimeStringFromMinutes(o.End)
	if o.Label == "" {
		return fmt.Sprintf("%s-%s", start, end)
	}
	return fmt.Sprintf("%s (%s-%s)", o.Label, start, end)
}

// OccupancyIndex индекс занятых интервалов барбера на одну дату.
// Строится из записей с занимающими статусами; отменённые и no-show
// записи время не занимают.
type OccupancyIndex struct {
	occupied []OccupiedInterval
}

// NewOccupancyIndex строит индекс занятости из записей.
// Записи с не-занимающими статусами пропускаются. Интервалы сортируются
// по началу, что даёт стабильный выбор "первого" пересечения.
func NewOccupancyIndex(appointments []*domain.Appointment) (*OccupancyIndex, error) {
	occupied := make([]OccupiedInterval, 0, len(appointments))

	for _, appt := range appointments {
		if !appt.IsOccupying() {
			continue
		}

		start, err := appt.StartTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("appointment id=%d: invalid start time: %w", appt.ID, err)
		}

		occupied = append(occupied, OccupiedInterval{
			Interval: Interval{Start: start, End: start + appt.DurationMinutes},
			Label:    appt.ServiceName,
		})
	}

	sort.Slice(occupied, func(a, b int) bool {
		return occupied[a].Start < occupied[b].Start
	})

	return &OccupancyIndex{occupied: occupied}, nil
}

// Overlaps возвращает первый занятый интервал, пересекающийся с кандидатом
// [candidateStart, candidateEnd), или nil, если пересечений нет.
// Тест полуоткрытый: candidateStart < occEnd && candidateEnd > occStart,
// записи "впритык" конфликтом не считаются.
func (idx *OccupancyIndex) Overlaps(candidateStart, candidateEnd int) *OccupiedInterval {
	candidate := Interval{Start: candidateStart, End: candidateEnd}

	for i := range idx.occupied {
		occ := idx.occupied[i]
		if occ.Start >= candidateEnd {
			// Интервалы отсортированы - дальше пересечений не будет
			break
		}
		if candidate.Overlaps(occ.Interval) {
			return &occ
		}
	}

	return nil
}

// Len возвращает количество занятых интервалов в индексе
func (idx *OccupancyIndex) Len() int {
	return len(idx.occupied)
}
