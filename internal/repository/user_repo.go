package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cuentix/inventory_api/internal/models"
)

// UserRepository handles data access for console users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, name, role, balance, permissions, is_active, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT id, email, password_hash, name, role, balance, permissions, is_active, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAll returns all users ordered by name.
func (r *UserRepository) GetAll() ([]models.User, error) {
	users := []models.User{}
	err := r.db.Select(&users, `
		SELECT id, email, password_hash, name, role, balance, permissions, is_active, created_at, updated_at
		FROM users ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash, name, role, balance, permissions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(q, user.Email, user.PasswordHash, user.Name, user.Role,
		user.Balance, pq.Array(user.Permissions), user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Update rewrites mutable user fields. Balance and permissions have their
// own statements; password changes go through UpdatePassword.
func (r *UserRepository) Update(user *models.User) error {
	const q = `
		UPDATE users SET email = $1, name = $2, role = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`
	return r.db.QueryRow(q, user.Email, user.Name, user.Role, user.IsActive, user.ID).
		Scan(&user.UpdatedAt)
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	return err
}

// Delete removes a user by id.
func (r *UserRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddBalance adds amount to the user's balance and returns the new value.
func (r *UserRepository) AddBalance(id, amount int) (int, error) {
	var balance int
	err := r.db.Get(&balance, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`, id, amount)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// GrantPermission appends a permission unless already present.
func (r *UserRepository) GrantPermission(id int, perm string) error {
	const q = `
		UPDATE users SET permissions = array_append(permissions, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(permissions))`
	_, err := r.db.Exec(q, id, perm)
	return err
}

// RevokePermission removes a permission if present.
func (r *UserRepository) RevokePermission(id int, perm string) error {
	const q = `
		UPDATE users SET permissions = array_remove(permissions, $2), updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(q, id, perm)
	return err
}
