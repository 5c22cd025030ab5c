package services

import (
	"errors"

	"github.com/kunalsingla/product-api/app/repositories"
	"github.com/kunalsingla/product-api/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so the response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountDisabled is returned when the account exists but is inactive.
var ErrAccountDisabled = errors.New("account is disabled")

// LoginInput is the payload for POST /api/v1/auth/login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// AuthService authenticates users and issues JWTs.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(in *LoginInput) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(auth.TokenTTL.Seconds()),
	}, nil
}
