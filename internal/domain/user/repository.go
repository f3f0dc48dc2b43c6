package user

import "context"

type Repository interface {
	Create(ctx context.Context, login, passwordHash, role string) (int, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
}
