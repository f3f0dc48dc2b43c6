package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultStartHour — начало рабочего окна зала.
	DefaultStartHour = 6
	// DefaultSlotCount — число часовых слотов в дне (06:00–21:00).
	DefaultSlotCount = 15
)

// GenerateDailySlots возвращает метки часовых слотов начиная со startHour.
// Метки детерминированы, слоты фиксированной ширины в один час.
func GenerateDailySlots(startHour, count int) []string {
	slots := make([]string, 0, count)
	for i := 0; i < count; i++ {
		h := startHour + i
		slots = append(slots, fmt.Sprintf("%02d:00 - %02d:00", h, h+1))
	}
	return slots
}

// slotEndHour извлекает час окончания из метки слота. Допускаются обе
// встречающиеся формы записи: "10:00 - 11:00" и "10:00-11:00".
func slotEndHour(timeSlot string) (int, error) {
	parts := strings.Split(timeSlot, "-")
	if len(parts) != 2 {
		return 0, fmt.Errorf("неверный формат слота: %q", timeSlot)
	}

	end := strings.TrimSpace(parts[1])
	hh, _, ok := strings.Cut(end, ":")
	if !ok {
		return 0, fmt.Errorf("неверный формат слота: %q", timeSlot)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("неверный час окончания слота: %q", timeSlot)
	}

	return hour, nil
}

// SlotEnd возвращает момент окончания слота записи в зоне loc.
func SlotEnd(b Booking, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, b.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("неверная дата записи: %w", err)
	}

	hour, err := slotEndHour(b.TimeSlot)
	if err != nil {
		return time.Time{}, err
	}

	return day.Add(time.Duration(hour) * time.Hour), nil
}

// CanRate сообщает, можно ли оценить тренировку: запись подтверждена и
// момент now позже окончания слота в ее день. Чистая функция от аргументов,
// пересчитывается при каждом обращении и нигде не кешируется.
func CanRate(b Booking, now time.Time) bool {
	if b.Status != StatusApproved {
		return false
	}

	end, err := SlotEnd(b, now.Location())
	if err != nil {
		return false
	}

	return now.After(end)
}
