package user

import "errors"

var (
	ErrNotFound     = errors.New("пользователь не найден")
	ErrInvalidAuth  = errors.New("неверный логин или пароль")
	ErrInvalidInput = errors.New("неверные входные данные")
	ErrLoginTaken   = errors.New("логин уже занят")
	ErrForbidden    = errors.New("недостаточно прав")
)
