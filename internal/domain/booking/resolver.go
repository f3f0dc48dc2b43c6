package booking

// SlotState — положение кандидата (тренер, день, слот) относительно
// существующих записей.
type SlotState string

const (
	// SlotFree — слот свободен, запись создается сразу со статусом Pending.
	SlotFree SlotState = "free"
	// SlotMine — у запрашивающего уже есть живая запись в этом слоте,
	// повторная запись запрещена.
	SlotMine SlotState = "my_booking"
	// SlotConflict — слот занят другим клиентом. Запись разрешена
	// (спорные заявки разводит администратор), но пользователю перед
	// подтверждением показывается предупреждение о конфликте.
	SlotConflict SlotState = "conflict"
)

// ClassifySlot классифицирует слот тренера на дату для запрашивающего
// пользователя. Учитываются только живые записи: отклоненные и завершенные
// слот не занимают. Чистая функция — одинаковые аргументы всегда дают
// одинаковый результат.
//
// Несколько заявок со статусом Pending на один слот сосуществуют намеренно:
// администратор подтверждает одну и вручную отклоняет остальные,
// автоматического отклонения нет.
func ClassifySlot(bookings []Booking, trainerID, date, timeSlot, requestingUserID string) SlotState {
	state := SlotFree

	for _, b := range bookings {
		if b.TrainerID != trainerID || b.Date != date || b.TimeSlot != timeSlot {
			continue
		}
		if !b.Active() {
			continue
		}

		if b.UserID == requestingUserID {
			return SlotMine
		}
		state = SlotConflict
	}

	return state
}
