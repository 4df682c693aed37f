package scheduling

import (
	"fmt"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
)

// ResolveDay вычисляет упорядоченный список непересекающихся открытых окон
// барбера на дату: рабочий интервал дня недели минус объединённые перерывы,
// с учётом исключения на конкретную дату.
//
// Правила:
//   - исключение с is_closed=true даёт пустой результат независимо от расписания;
//   - нет рабочих часов на этот день недели - пустой результат;
//   - перерывы объединяются перед вычитанием (защита от пересекающихся строк),
//     обрезаются границами рабочего окна; перерыв целиком вне окна игнорируется;
//   - перерыв посреди дня разбивает окно на два.
func ResolveDay(schedule domain.DaySchedule, exception *domain.ScheduleException) ([]Interval, error) {
	if exception != nil && exception.IsClosed {
		return nil, nil
	}

	if !schedule.IsWorkingDay() {
		return nil, nil
	}

	window, err := workHourInterval(schedule.WorkHour)
	if err != nil {
		return nil, err
	}

	breaks := make([]Interval, 0, len(schedule.Breaks))
	for _, br := range schedule.Breaks {
		iv, err := breakInterval(br)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, iv)
	}

	return subtractIntervals(window, mergeIntervals(breaks)), nil
}

func workHourInterval(wh *domain.WorkHour) (Interval, error) {
	start, err := wh.StartTime.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("work hour id=%d: invalid start time: %w", wh.ID, err)
	}
	end, err := wh.EndTime.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("work hour id=%d: invalid end time: %w", wh.ID, err)
	}
	if start >= end {
		return Interval{}, fmt.Errorf("work hour id=%d: start %s is not before end %s", wh.ID, wh.StartTime, wh.EndTime)
	}
	return Interval{Start: start, End: end}, nil
}

func breakInterval(br *domain.Break) (Interval, error) {
	start, err := br.StartTime.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("break id=%d: invalid start time: %w", br.ID, err)
	}
	end, err := br.EndTime.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("break id=%d: invalid end time: %w", br.ID, err)
	}
	return Interval{Start: start, End: end}, nil
}
