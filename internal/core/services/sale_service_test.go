package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/core/services"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SaleRepository ---
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) SaveSale(ctx context.Context, sale domain.SaleTransaction, stockChanges map[string]int64) error {
	args := m.Called(ctx, sale, stockChanges)
	return args.Error(0)
}

func (m *MockSaleRepository) ApplyCreditPayment(ctx context.Context, saleID string, amount decimal.Decimal, updatedBy string, updatedAt time.Time) (*domain.SaleTransaction, error) {
	args := m.Called(ctx, saleID, amount, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleTransaction), args.Error(1)
}

func (m *MockSaleRepository) UpdateCreditSchedule(ctx context.Context, saleID string, nextDueDate time.Time, overdue bool, updatedAt time.Time) error {
	args := m.Called(ctx, saleID, nextDueDate, overdue, updatedAt)
	return args.Error(0)
}

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleTransaction), args.Error(1)
}

func (m *MockSaleRepository) ListSalesBySource(ctx context.Context, sourceID string, limit, offset int) ([]domain.SaleTransaction, error) {
	args := m.Called(ctx, sourceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleTransaction), args.Error(1)
}

func (m *MockSaleRepository) ListDueCreditSales(ctx context.Context, asOf time.Time) ([]domain.SaleTransaction, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleTransaction), args.Error(1)
}

func (m *MockSaleRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockSaleRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSaleRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock StockCacheInvalidator ---
type MockStockCacheInvalidator struct {
	mock.Mock
}

func (m *MockStockCacheInvalidator) Invalidate(ctx context.Context, sourceID string) error {
	args := m.Called(ctx, sourceID)
	return args.Error(0)
}

// --- Test Suite ---
type SaleServiceTestSuite struct {
	suite.Suite
	mockSaleRepo    *MockSaleRepository
	mockProductRepo *MockProductRepository
	mockStockRepo   *MockStockRepository
	mockCache       *MockStockCacheInvalidator
	service         portssvc.SaleSvcFacade
}

func (suite *SaleServiceTestSuite) SetupTest() {
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockStockRepo = new(MockStockRepository)
	suite.mockCache = new(MockStockCacheInvalidator)
	pricing := services.NewPricingService(suite.mockProductRepo, suite.mockStockRepo)
	suite.service = services.NewSaleService(suite.mockSaleRepo, pricing, suite.mockCache)
}

func (suite *SaleServiceTestSuite) expectCatalogAndStock(available int64) {
	catalog := map[string]domain.Product{
		"prod-a": {ProductID: "prod-a", Name: "Widget", UnitPrice: dec("10"), IsActive: true},
	}
	suite.mockProductRepo.On("FindProductsByIDs", mock.Anything, []string{"prod-a"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", mock.Anything, "prod-a", testSourceID).
		Return(&domain.StockLevel{ProductID: "prod-a", SourceID: testSourceID, Quantity: available}, nil).Once()
}

func (suite *SaleServiceTestSuite) TestCreateSale_Success() {
	ctx := context.Background()
	creatorUserID := "user-1"
	req := dto.CreateSaleTransactionRequest{
		Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 3}},
		PaymentMethod: "telebirr",
		SourceID:      testSourceID,
	}
	suite.expectCatalogAndStock(10)

	suite.mockSaleRepo.On("SaveSale", ctx, mock.MatchedBy(func(s domain.SaleTransaction) bool {
		return s.PaymentMethod == domain.PaymentTelebirr &&
			s.Status == domain.StatusPaid &&
			s.Credit == nil &&
			s.TransactedBy == creatorUserID &&
			len(s.Items) == 1 &&
			s.Items[0].SaleID == s.SaleID &&
			dec("30").Equal(s.FinalPrice)
	}), map[string]int64{"prod-a": 3}).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx, testSourceID).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(sale)
	suite.NotEmpty(sale.SaleID)
	suite.Equal(domain.StatusPaid, sale.Status)
	suite.Equal(domain.SourceShop, sale.SourceType)
	suite.True(dec("30").Equal(sale.Subtotal))

	suite.mockSaleRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_CreditSale() {
	ctx := context.Background()
	installment := dec("10")
	start := time.Now().UTC().Add(24 * time.Hour)
	req := dto.CreateSaleTransactionRequest{
		Items:           []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 3}},
		PaymentMethod:   "credit",
		CreditorName:    "Abebe Kebede",
		CreditDuration:  &installment,
		CreditFrequency: "weekly",
		CreditStartDate: &start,
		SourceID:        testSourceID,
	}
	suite.expectCatalogAndStock(10)

	suite.mockSaleRepo.On("SaveSale", ctx, mock.MatchedBy(func(s domain.SaleTransaction) bool {
		return s.Status == domain.StatusUnpaid &&
			s.Credit != nil &&
			s.Credit.CreditorName == "Abebe Kebede" &&
			s.Credit.NextDueDate.Equal(start) &&
			s.Credit.PaidAmount.IsZero()
	}), mock.Anything).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx, testSourceID).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(sale.Credit)
	suite.Equal(domain.StatusUnpaid, sale.Status)
	suite.True(dec("30").Equal(sale.Remaining()))
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestCreateSale_CreditMissingCreditorName() {
	ctx := context.Background()
	installment := dec("10")
	req := dto.CreateSaleTransactionRequest{
		Items:           []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMethod:   "credit",
		CreditDuration:  &installment,
		CreditFrequency: "weekly",
		SourceID:        testSourceID,
	}
	suite.expectCatalogAndStock(10)

	sale, err := suite.service.CreateSale(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, domain.ErrMissingCreditorName)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "SaveSale")
}

func (suite *SaleServiceTestSuite) TestCreateSale_InvalidPaymentMethod() {
	req := dto.CreateSaleTransactionRequest{
		Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMethod: "paypal",
		SourceID:      testSourceID,
	}

	sale, err := suite.service.CreateSale(context.Background(), req, "user-1")

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, services.ErrInvalidPaymentMethod)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs")
}

func (suite *SaleServiceTestSuite) TestCreateSale_InsufficientStockAtCommit() {
	// Pricing passes but the repository loses the race under row lock.
	ctx := context.Background()
	req := dto.CreateSaleTransactionRequest{
		Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 3}},
		PaymentMethod: "cbe",
		SourceID:      testSourceID,
	}
	suite.expectCatalogAndStock(10)

	suite.mockSaleRepo.On("SaveSale", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrInsufficientStock).Once()

	sale, err := suite.service.CreateSale(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockCache.AssertNotCalled(suite.T(), "Invalidate")
}

func (suite *SaleServiceTestSuite) TestCreateSale_CacheInvalidationFailureIsNotFatal() {
	ctx := context.Background()
	req := dto.CreateSaleTransactionRequest{
		Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}},
		PaymentMethod: "awash",
		SourceID:      testSourceID,
	}
	suite.expectCatalogAndStock(10)
	suite.mockSaleRepo.On("SaveSale", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("Invalidate", ctx, testSourceID).Return(assert.AnError).Once()

	sale, err := suite.service.CreateSale(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotNil(sale)
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestGetSaleByID_NotFound() {
	ctx := context.Background()
	suite.mockSaleRepo.On("FindSaleByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	sale, err := suite.service.GetSaleByID(ctx, "missing")

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SaleServiceTestSuite) TestListSales_ClampsPaging() {
	ctx := context.Background()
	expected := []domain.SaleTransaction{{SaleID: "sale-1"}}

	// Limit above the cap is clamped, negative offset becomes zero.
	suite.mockSaleRepo.On("ListSalesBySource", ctx, testSourceID, 100, 0).Return(expected, nil).Once()

	sales, err := suite.service.ListSales(ctx, dto.ListSalesParams{SourceID: testSourceID, Limit: 500, Offset: -3})

	suite.Require().NoError(err)
	suite.Equal(expected, sales)
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *SaleServiceTestSuite) TestListSales_DefaultLimit() {
	ctx := context.Background()
	suite.mockSaleRepo.On("ListSalesBySource", ctx, "", 20, 0).Return([]domain.SaleTransaction{}, nil).Once()

	sales, err := suite.service.ListSales(ctx, dto.ListSalesParams{})

	suite.Require().NoError(err)
	suite.NotNil(sales)
	suite.Empty(sales)
}

func TestSaleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SaleServiceTestSuite))
}
