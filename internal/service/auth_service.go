package service

import (
	"database/sql"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/utils"
)

// AuthService handles console operator authentication.
type AuthService struct {
	userRepo *repository.UserRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login verifies credentials and issues a JWT. Unknown emails, wrong
// passwords and disabled users all return the same error so the response
// never leaks which part failed.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", utils.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	log.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User logged in")
	return user, token, nil
}
