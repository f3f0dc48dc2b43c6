package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"gymsync/internal/domain/user"
)

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, login, passwordHash, role string) (int, error) {
	var userID int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id`,
		login, passwordHash, role).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 — нарушение уникальности логина
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, user.ErrLoginTaken
		}
		return 0, fmt.Errorf("создание пользователя: %w", err)
	}

	return userID, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	var u user.User
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, login, password_hash, role, created_at FROM users WHERE login = $1`, login).
		Scan(&u.ID, &u.Login, &u.Password, &u.Role, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("поиск пользователя: %w", err)
	}

	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (user.User, error) {
	var u user.User
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, login, password_hash, role, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Login, &u.Password, &u.Role, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("поиск пользователя: %w", err)
	}

	return u, nil
}
