// Package scheduling содержит вычислительное ядро движка расписания:
// разрешение открытых окон дня, генерацию кандидатов слотов и индекс
// занятости. Пакет не ходит в БД и работает в минутах с начала суток.
//
// Один и тот же примитив проверки пересечения используется и read-path-ом
// (выдача сетки слотов), и авторитетной проверкой внутри транзакции
// бронирования, чтобы их логика не расходилась.
package scheduling

import "sort"

// Interval полуоткрытый интервал [Start, End) в минутах с начала суток
type Interval struct {
	Start int
	End   int
}

// IsEmpty возвращает true для вырожденного интервала
func (i Interval) IsEmpty() bool {
	return i.Start >= i.End
}

// Overlaps возвращает true, если интервалы действительно пересекаются.
// Полуоткрытые интервалы: касание границ пересечением не считается.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Contains возвращает true, если other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// clip обрезает интервал границами bounds; может вернуть пустой интервал
func (i Interval) clip(bounds Interval) Interval {
	out := i
	if out.Start < bounds.Start {
		out.Start = bounds.Start
	}
	if out.End > bounds.End {
		out.End = bounds.End
	}
	return out
}

// mergeIntervals сортирует интервалы по началу и объединяет пересекающиеся
// и соприкасающиеся. Пустые интервалы отбрасываются.
func mergeIntervals(intervals []Interval) []Interval {
	filtered := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			filtered = append(filtered, iv)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.Slice(filtered, func(a, b int) bool {
		return filtered[a].Start < filtered[b].Start
	})

	merged := []Interval{filtered[0]}
	for _, iv := range filtered[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			// Пересекаются или соприкасаются - расширяем последний
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}

// subtractIntervals вычитает из window объединённые интервалы cuts.
// cuts должны быть отсортированы и не пересекаться (см. mergeIntervals).
// Результат - 0, 1 или N непересекающихся под-интервалов в порядке возрастания.
func subtractIntervals(window Interval, cuts []Interval) []Interval {
	if window.IsEmpty() {
		return nil
	}

	result := make([]Interval, 0, len(cuts)+1)
	cursor := window.Start

	for _, cut := range cuts {
		clipped := cut.clip(window)
		if clipped.IsEmpty() {
			// Вырезаемый интервал целиком вне окна
			continue
		}
		if clipped.Start > cursor {
			result = append(result, Interval{Start: cursor, End: clipped.Start})
		}
		if clipped.End > cursor {
			cursor = clipped.End
		}
	}

	if cursor < window.End {
		result = append(result, Interval{Start: cursor, End: window.End})
	}

	return result
}
