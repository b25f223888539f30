package scheduling

import (
	"fmt"
	"sort"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// ValidateWindow проверяет одно окно доступности: день недели 0-6, корректное время, start < end
func ValidateWindow(w domain.AvailabilityWindow) error {
	if !w.DayOfWeek.IsValid() {
		return fmt.Errorf("%w: got %d", ErrInvalidWeekday, int(w.DayOfWeek))
	}
	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %w", ErrInvalidWindow, err)
	}
	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %w", ErrInvalidWindow, err)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, w.StartTime, w.EndTime)
	}
	return nil
}

// CheckOverlap ищет первое пересечение активных окон в пределах одного дня недели.
// Окна группируются по дню, внутри дня сортируются по времени начала
// и сравниваются соседние пары: конфликт, если prev.End > next.Start.
// Порядок обхода: день недели по возрастанию, затем время начала.
// Неактивные окна не участвуют. Возвращает nil, если конфликтов нет.
func CheckOverlap(windows []domain.AvailabilityWindow) *OverlapConflict {
	byDay := make(map[domain.Weekday][]domain.AvailabilityWindow)
	for _, w := range windows {
		if !w.Active {
			continue
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	days := make([]domain.Weekday, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	for _, day := range days {
		group := byDay[day]
		// Стабильная сортировка: при равном начале сохраняется порядок ввода
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime.IsBefore(group[j].StartTime)
		})

		for i := 1; i < len(group); i++ {
			prev, next := group[i-1], group[i]
			if prev.EndTime.IsAfter(next.StartTime) {
				return &OverlapConflict{DayOfWeek: day, First: prev, Second: next}
			}
		}
	}

	return nil
}
