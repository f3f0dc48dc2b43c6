package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, login, password string) (int, error)
	Authenticate(ctx context.Context, login, password string) (User, error)
	Find(ctx context.Context, id int) (User, error)
	IsAdmin(ctx context.Context, id int) (bool, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

// Register создает пользователя с ролью member. Администраторы назначаются
// напрямую в базе, публичной регистрации администраторов нет.
func (s *Service) Register(ctx context.Context, login, password string) (int, error) {
	if err := s.validator.ValidateRegister(login, password); err != nil {
		s.log.Debug("Валидация не пройдена", "login", login, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("хэш пароля: %w", err)
	}

	return s.repo.Create(ctx, login, string(hash), RoleMember)
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	if err := s.validator.ValidateLogin(login); err != nil {
		return User{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return User{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return u, nil
}

func (s *Service) Find(ctx context.Context, id int) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) IsAdmin(ctx context.Context, id int) (bool, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	return u.IsAdmin(), nil
}
