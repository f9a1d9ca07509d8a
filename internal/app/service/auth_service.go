package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"restaurant_api/internal/common"
	"restaurant_api/internal/common/security"
	"restaurant_api/internal/domain/model"
	"restaurant_api/internal/domain/repository"
	"strings"

	"github.com/google/uuid"
)

// Typed registration failures. The HTTP layer collapses everything but a
// duplicate username into one generic message, but callers inside the process
// can still tell the causes apart.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUser      = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password too short")
	ErrStoreFailure       = errors.New("account store failure")
)

// Passwords only need to be non-empty. Deliberately permissive.
const minPasswordLength = 1

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login verifies credentials and mints a token. Every failure comes back as
// ErrInvalidCredentials so callers cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsernameFold(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Printf("login: user lookup failed: %v", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	role := ""
	if user.Role != nil {
		role = *user.Role
	}

	token, err := security.GenerateToken(user, role)
	if err != nil {
		log.Printf("login: token generation failed: %v", err)
		return nil, ErrInvalidCredentials
	}
	if token == "" || user.Email == "" {
		return nil, ErrInvalidCredentials
	}

	return &LoginResponse{Email: user.Email, Token: token}, nil
}

// Register creates an account and assigns exactly one role. The Admin role is
// granted only when the request asks for "admin" in any case; anything else,
// including an empty role, falls back to Customer.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	// Uniqueness is checked first: a taken username is always reported as
	// such, even when the rest of the request would not have validated.
	_, err := s.userRepo.FindByUsernameFold(ctx, req.Username)
	if err == nil {
		return ErrDuplicateUser
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: username lookup: %v", ErrStoreFailure, err)
	}

	if len(req.Password) < minPasswordLength {
		return ErrWeakPassword
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("%w: hash password: %v", ErrStoreFailure, err)
	}

	user := &model.User{
		ID:              uuid.NewString(),
		Username:        req.Username,
		Email:           req.Username,
		NormalizedEmail: strings.ToUpper(req.Username),
		Name:            req.Name,
		HashedPassword:  hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost a race with a concurrent registration of the same name.
			return ErrDuplicateUser
		}
		return fmt.Errorf("%w: create user: %v", ErrStoreFailure, err)
	}

	// Roles are created lazily; both must exist before any assignment.
	if err := s.userRepo.EnsureRoles(ctx); err != nil {
		return fmt.Errorf("%w: ensure roles: %v", ErrStoreFailure, err)
	}

	role := model.RoleCustomer
	if strings.EqualFold(req.Role, model.RoleAdmin) {
		role = model.RoleAdmin
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("%w: assign role: %v", ErrStoreFailure, err)
	}

	return nil
}

// Profile returns the account behind an authenticated token.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
