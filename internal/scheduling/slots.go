// Package scheduling содержит чистое ядро расписания: проверку пересечения окон,
// генерацию слотов и валидацию выбранного слота. Пакет не обращается к хранилищам
// и часам: все данные и текущее время передаются явно.
package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/timewindow"
)

// GenerateInput входные данные генерации слотов на один день
type GenerateInput struct {
	Date            time.Time      // Календарная дата (используются только год, месяц, день)
	Location        *time.Location // Часовой пояс провайдера, nil = UTC
	DurationMinutes int
	Now             time.Time

	Windows      []domain.AvailabilityWindow // Окна провайдера (можно все дни недели)
	Exclusions   []domain.ExclusionBlock
	Appointments []domain.Appointment
}

// GenerateSlots генерирует упорядоченный список слотов на дату.
//
// Для каждого активного окна дня недели слоты идут с шагом 30 минут от начала окна,
// пока step + duration <= конец окна. Каждый слот классифицируется по приоритету:
// прошлое, блокировка исключением, занятость записью, иначе доступен.
// Если окон на день нет, возвращается пустой список без ошибки.
func GenerateSlots(in GenerateInput) ([]domain.Slot, error) {
	if in.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	loc := locationOrUTC(in.Location)
	weekday := domain.WeekdayOf(timewindow.DateOf(in.Date, loc).Weekday())

	durationSeconds := in.DurationMinutes * 60
	slots := make([]domain.Slot, 0)

	for _, w := range activeWindowsFor(in.Windows, weekday) {
		if !w.Fits(in.DurationMinutes) {
			continue
		}

		end := w.EndTime.Seconds()
		for clock := w.StartTime; clock.Seconds()+durationSeconds <= end; {
			// Шаги сетки, попавшие в час перевода часов вперед, не существуют на этих сутках
			if start, ok := timewindow.AtWallClock(in.Date, clock, loc); ok {
				span := timewindow.New(start, in.DurationMinutes)
				slots = append(slots, classify(span, in.DurationMinutes, in.Now, in.Exclusions, in.Appointments))
			}

			next, err := clock.AddMinutes(domain.SlotGridStepMinutes)
			if err != nil {
				break
			}
			clock = next
		}
	}

	// Окна не должны пересекаться, но если пересекаются - дубли остаются в выдаче
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// classify определяет доступность слота: past_time -> blocked -> occupied -> available
func classify(
	span timewindow.Interval,
	durationMinutes int,
	now time.Time,
	exclusions []domain.ExclusionBlock,
	appointments []domain.Appointment,
) domain.Slot {
	slot := domain.Slot{
		Start:           span.Start,
		End:             span.End,
		DurationMinutes: durationMinutes,
	}

	if span.Start.Before(now) {
		slot.Reason = domain.SlotReasonPastTime
		return slot
	}

	if block := firstBlocking(span, exclusions); block != nil {
		slot.Reason = domain.SlotReasonBlocked
		slot.BlockTitle = block.Title
		return slot
	}

	if appt := firstOccupying(span, appointments, nil); appt != nil {
		slot.Reason = domain.SlotReasonOccupied
		return slot
	}

	slot.Available = true
	return slot
}

// firstBlocking возвращает первый блок исключения, пересекающийся с интервалом
func firstBlocking(span timewindow.Interval, exclusions []domain.ExclusionBlock) *domain.ExclusionBlock {
	for i := range exclusions {
		block := timewindow.Interval{Start: exclusions[i].StartAt, End: exclusions[i].EndAt}
		if span.Overlaps(block) {
			return &exclusions[i]
		}
	}
	return nil
}

// firstOccupying возвращает первую неотмененную запись, пересекающуюся с интервалом.
// Запись с ID == excludeID пропускается (редактирование самой себя).
func firstOccupying(span timewindow.Interval, appointments []domain.Appointment, excludeID *int64) *domain.Appointment {
	for i := range appointments {
		appt := &appointments[i]
		if !appt.OccupiesTime() {
			continue
		}
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		if span.Overlaps(timewindow.New(appt.ScheduledAt, appt.DurationMinutes)) {
			return appt
		}
	}
	return nil
}

func activeWindowsFor(windows []domain.AvailabilityWindow, day domain.Weekday) []domain.AvailabilityWindow {
	schedule := domain.WeeklySchedule{Windows: windows}
	return schedule.ForDay(day)
}

func locationOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// DayRange возвращает локальные сутки провайдера для календарной даты
func DayRange(date time.Time, loc *time.Location) timewindow.Interval {
	return timewindow.DayBounds(date, locationOrUTC(loc))
}

// AppointmentLookup возвращает диапазон scheduled_at, в котором нужно искать записи,
// способные пересечься с span. Начало сдвигается назад на предельную длительность записи
// domain.MaxAppointmentDurationMinutes, чтобы учесть записи, начавшиеся накануне и переходящие
// через полночь. Предел не зависит от настроек: длиннее него записей в хранилище нет (CHECK в схеме),
// а уменьшение scheduling.max_appointment_duration_minutes не должно терять старые длинные записи.
func AppointmentLookup(span timewindow.Interval) timewindow.Interval {
	return timewindow.Interval{
		Start: span.Start.Add(-time.Duration(domain.MaxAppointmentDurationMinutes) * time.Minute),
		End:   span.End,
	}
}
