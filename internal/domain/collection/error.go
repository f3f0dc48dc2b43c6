package collection

import "errors"

var (
	// ErrNotFound — коллекция еще не записывалась.
	ErrNotFound = errors.New("коллекция не найдена")
	// ErrInvalidPath — недопустимый путь коллекции.
	ErrInvalidPath = errors.New("недопустимый путь коллекции")
)
