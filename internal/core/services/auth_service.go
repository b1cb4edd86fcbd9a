package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portsrepo "github.com/esmaelhussen/stock-managment-api/internal/core/ports/repositories"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/utils"
)

// ErrInvalidCredentials indicates a failed username/password check.
var ErrInvalidCredentials = errors.New("invalid username or password")

// authService verifies credentials and issues bearer tokens.
type authService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the password and returns the user plus a signed JWT whose
// subject is the user ID (recorded as transactedBy on sales).
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login", slog.String("username", username))
		return nil, "", err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return user, token, nil
}
