package session

import "errors"

var ErrInvalidSession = errors.New("недействительная сессия")
