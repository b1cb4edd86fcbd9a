package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/core/services"
	"github.com/esmaelhussen/stock-managment-api/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---
type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAuthService(suite.mockUserRepo, "test-secret", time.Hour, "test-issuer")
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	user := &domain.User{UserID: "user-1", Username: "kedir", Name: "Kedir A", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "kedir").Return(user, nil).Once()

	gotUser, token, err := suite.service.Login(ctx, "kedir", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal(user, gotUser)
	suite.NotEmpty(token)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)

	user := &domain.User{UserID: "user-1", Username: "kedir", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "kedir").Return(user, nil).Once()

	gotUser, token, err := suite.service.Login(ctx, "kedir", "wrong-password")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCredentials)
	suite.Nil(gotUser)
	suite.Empty(token)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	gotUser, token, err := suite.service.Login(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	// Unknown user and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, services.ErrInvalidCredentials)
	suite.Nil(gotUser)
	suite.Empty(token)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
