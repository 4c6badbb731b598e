package service

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/sse"
	"github.com/cuentix/inventory_api/internal/utils"
)

// UserService handles console user administration: accounts for operators,
// their balances and their permissions.
type UserService struct {
	userRepo *repository.UserRepository
	notifier *sse.Notifier
}

// NewUserService constructs a UserService.
func NewUserService(userRepo *repository.UserRepository, notifier *sse.Notifier) *UserService {
	return &UserService{userRepo: userRepo, notifier: notifier}
}

// CreateUserRequest is the payload to register a console operator.
type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Name        string   `json:"name" binding:"required"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// UpdateUserRequest carries partial user edits.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// Create registers a new console user with a bcrypt-hashed password.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	existing, _ := s.userRepo.GetByEmail(req.Email)
	if existing != nil {
		return nil, utils.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = "operator"
	}
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
		Permissions:  pq.StringArray(req.Permissions),
		IsActive:     true,
	}
	if user.Permissions == nil {
		user.Permissions = pq.StringArray{}
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User created")
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns all console users.
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// Update applies partial edits to a user.
func (s *UserService) Update(id int, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Email != "" && req.Email != user.Email {
		existing, _ := s.userRepo.GetByEmail(req.Email)
		if existing != nil {
			return nil, utils.ErrDuplicateUser
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces a user's password.
func (s *UserService) ChangePassword(id int, newPassword string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(id, string(hash))
}

// Delete removes a console user.
func (s *UserService) Delete(id int) error {
	if err := s.userRepo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrUserNotFound
		}
		return err
	}
	log.Info().Int("user_id", id).Msg("User deleted")
	return nil
}

// Recharge adds a positive amount to a user's balance and returns the new
// value.
func (s *UserService) Recharge(principal string, id, amount int) (balance int, err error) {
	defer func() {
		if err != nil {
			s.notifier.Error(principal, "No se pudo recargar el saldo")
		}
	}()
	if amount <= 0 {
		return 0, utils.ErrInvalidAmount
	}
	user, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	balance, err = s.userRepo.AddBalance(id, amount)
	if err != nil {
		return 0, err
	}
	s.notifier.Success(principal, fmt.Sprintf("Saldo de %s recargado", user.Name))
	return balance, nil
}

// GrantPermission adds a permission to a user. Granting an already held
// permission is a no-op.
func (s *UserService) GrantPermission(id int, perm string) (*models.User, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.userRepo.GrantPermission(id, perm); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// RevokePermission removes a permission from a user.
func (s *UserService) RevokePermission(id int, perm string) (*models.User, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.userRepo.RevokePermission(id, perm); err != nil {
		return nil, err
	}
	return s.Get(id)
}
