package models

import (
	"time"

	"github.com/lib/pq"
)

// User is a console user: an operator of the management panel.
type User struct {
	ID           int            `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	Role         string         `db:"role" json:"role"`
	Balance      int            `db:"balance" json:"balance"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	IsActive     bool           `db:"is_active" json:"isActive"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasPermission reports whether the user carries the named permission.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
