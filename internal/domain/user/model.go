package user

import "time"

// Роли пользователей. Администратор подтверждает и отклоняет заявки на
// тренировки в админке.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID        int
	Login     string
	Password  string // хэш
	Role      string
	CreatedAt time.Time
}

// IsAdmin сообщает, есть ли у пользователя права администратора.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
