package scheduling

// Candidates дискретизирует открытые окна в кандидатов времени начала.
//
// Для каждого окна [a, b) генерируются старты a, a+granularity, a+2*granularity, ...
// пока start + durationMinutes <= b. Кандидат никогда не пересекает границу окна,
// то есть услуга целиком помещается в одно открытое окно и не может
// "перешагнуть" перерыв. Порядок возрастающий и стабильный.
//
// openIntervals должны быть непересекающимися и упорядоченными (см. ResolveDay).
func Candidates(openIntervals []Interval, granularityMinutes, durationMinutes int) []int {
	if granularityMinutes <= 0 || durationMinutes <= 0 {
		return nil
	}

	candidates := make([]int, 0)
	for _, window := range openIntervals {
		for start := window.Start; start+durationMinutes <= window.End; start += granularityMinutes {
			candidates = append(candidates, start)
		}
	}

	return candidates
}

// AlignedToGranularity возвращает true, если startMinutes лежит на сетке
// кандидатов какого-либо из открытых окон. Используется write-path-ом для
// отклонения запросов с произвольным временем начала.
func AlignedToGranularity(openIntervals []Interval, startMinutes, granularityMinutes int) bool {
	if granularityMinutes <= 0 {
		return false
	}
	for _, window := range openIntervals {
		if startMinutes < window.Start || startMinutes >= window.End {
			continue
		}
		if (startMinutes-window.Start)%granularityMinutes == 0 {
			return true
		}
	}
	return false
}
