package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// generateTimeSlots генерирует слоты рабочего дня с шагом rule.SlotMinutes.
// Первый слот начинается с первой кратной шагу минуты не раньше начала рабочего дня,
// последний заканчивается не позже конца рабочего дня.
// Для сегодняшней даты уже начавшиеся слоты отбрасываются.
func generateTimeSlots(rule domain.BookingRule, day time.Time, now time.Time) []domain.Interval {
	slots := make([]domain.Interval, 0)

	if isDateInPast(day, now) {
		return slots
	}

	first := ceilToMultiple(rule.WorkStartMinute, rule.SlotMinutes)
	for minute := first; minute+rule.SlotMinutes <= rule.WorkEndMinute; minute += rule.SlotMinutes {
		slot := domain.Interval{
			Start: atMinute(day, minute),
			End:   atMinute(day, minute+rule.SlotMinutes),
		}

		if isSameDay(day, now) && slot.Start.Before(now) {
			continue
		}

		slots = append(slots, slot)
	}

	return slots
}

// markFreeSlots помечает слоты, которые не пересекаются ни с одним активным бронированием.
// Граничные интервалы (бронирование до 10:00, слот с 10:00) пересечением не считаются.
func markFreeSlots(intervals []domain.Interval, bookings []*domain.Booking) []Slot {
	result := make([]Slot, len(intervals))

	for i, interval := range intervals {
		result[i] = Slot{
			StartTime: interval.Start,
			EndTime:   interval.End,
			Free:      !domain.HasOverlap(interval, bookings),
		}
	}

	return result
}

// atMinute возвращает момент minute минут от полуночи дня day по настенным часам
func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

func ceilToMultiple(value, step int) int {
	if rem := value % step; rem != 0 {
		return value + step - rem
	}
	return value
}
