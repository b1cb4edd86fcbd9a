package repositories

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByUsername retrieves a user by username for login.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserRepositoryFacade is the full user repository surface.
type UserRepositoryFacade interface {
	UserReader
}
