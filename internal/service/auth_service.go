package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rentify/internal/auth"
	"rentify/internal/errors"
	"rentify/internal/model"
	"rentify/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the profile fields accepted at registration. The
// role is never client-controlled; every registration produces a plain user.
type RegisterInput struct {
	Username  string
	Email     string
	Phone     string
	Firstname string
	Lastname  string
	Password  string
}

// AuthService handles credential and session operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.Account, string, error)
	Login(ctx context.Context, identifier, password string) (*model.Account, string, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword, confirm string) error
}

type authService struct {
	accounts   repository.AccountRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts repository.AccountRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		accounts:   accounts,
		jwtService: jwtService,
	}
}

// Register creates an account with a hashed password and issues a session
// token for it.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.Account, string, error) {
	taken, err := s.accounts.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, "", errors.Unavailable("Cannot register user")
	}
	if taken {
		return nil, "", errors.Validation("Username or email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", errors.Unavailable("Cannot register user")
	}

	account := &model.Account{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", errors.Validation("Cannot register user")
	}

	token, err := s.jwtService.GenerateToken(account)
	if err != nil {
		return nil, "", errors.Unavailable("Cannot register user")
	}
	return account, token, nil
}

// Login matches the identifier against username or email and verifies the
// password. Every failure shape is the same 401 so callers cannot probe
// which field was wrong.
func (s *authService) Login(ctx context.Context, identifier, password string) (*model.Account, string, error) {
	account, err := s.accounts.FindByIdentifier(ctx, identifier)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", errors.Auth("Invalid credentials")
		}
		return nil, "", errors.Unavailable("Cannot login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.Auth("Invalid credentials")
	}

	token, err := s.jwtService.GenerateToken(account)
	if err != nil {
		return nil, "", errors.Unavailable("Cannot login")
	}
	return account, token, nil
}

// ChangePassword swaps the stored hash after verifying the current password
// and the confirmation. The hash stays untouched on any failure.
func (s *authService) ChangePassword(ctx context.Context, accountID uuid.UUID, current, newPassword, confirm string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NotFound("User cannot be found")
		}
		return errors.Unavailable("Cannot change password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)); err != nil {
		return errors.Auth("Current password is incorrect")
	}
	if newPassword != confirm {
		return errors.Validation("New password confirmation mismatch")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return errors.Unavailable("Cannot change password")
	}
	account.PasswordHash = string(hashed)

	if err := s.accounts.Update(ctx, account); err != nil {
		return errors.Unavailable("Cannot change password")
	}
	return nil
}
