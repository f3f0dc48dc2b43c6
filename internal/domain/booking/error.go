package booking

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrAlreadyBooked — у пользователя уже есть живая запись в этом слоте.
	ErrAlreadyBooked = errors.New("вы уже записаны на этот слот")
	// ErrInvalidTransition — недопустимая смена статуса записи.
	ErrInvalidTransition = errors.New("недопустимая смена статуса")
	// ErrNotRateable — тренировку пока нельзя оценить.
	ErrNotRateable = errors.New("тренировку нельзя оценить до ее окончания")
	// ErrInvalidInput — неверные входные данные.
	ErrInvalidInput = errors.New("неверные входные данные")
)
