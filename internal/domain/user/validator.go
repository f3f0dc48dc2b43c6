package user

import (
	"fmt"
	"unicode"
)

const (
	MinLoginLen    = 3
	MaxLoginLen    = 32
	MinPasswordLen = 8
)

// Validator — валидация учетных данных при регистрации и входе.
type Validator interface {
	ValidateRegister(login, password string) error
	ValidateLogin(login string) error
	ValidatePassword(password string) error
}

type CredentialsValidator struct {
	requireDigit bool
	requireLetter bool
}

// NewCredentialsValidator создает валидатор с правилами по умолчанию.
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{
		requireDigit:  true,
		requireLetter: true,
	}
}

// ValidateRegister валидирует данные для регистрации.
func (v *CredentialsValidator) ValidateRegister(login, password string) error {
	if err := v.ValidateLogin(login); err != nil {
		return fmt.Errorf("логин: %w", err)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("пароль: %w", err)
	}

	return nil
}

// ValidateLogin валидирует логин.
func (v *CredentialsValidator) ValidateLogin(login string) error {
	if len(login) < MinLoginLen {
		return fmt.Errorf("не короче %d символов", MinLoginLen)
	}

	if len(login) > MaxLoginLen {
		return fmt.Errorf("не длиннее %d символов", MaxLoginLen)
	}

	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("допустимы буквы, цифры, '_', '-', '.'")
		}
	}

	return nil
}

// ValidatePassword валидирует пароль.
func (v *CredentialsValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("не короче %d символов", MinPasswordLen)
	}

	hasDigit := false
	hasLetter := false

	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}

	if v.requireDigit && !hasDigit {
		return fmt.Errorf("нужна хотя бы одна цифра")
	}

	if v.requireLetter && !hasLetter {
		return fmt.Errorf("нужна хотя бы одна буква")
	}

	return nil
}
