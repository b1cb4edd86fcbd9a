package services

import (
	"context"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// AuthSvcFacade exposes login for the dashboard. Token issuance only; role
// and permission management is out of scope for this service.
type AuthSvcFacade interface {
	// Login verifies credentials and returns the user plus a signed JWT.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}
