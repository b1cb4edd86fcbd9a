package services_test

import (
	"context"
	"testing"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/esmaelhussen/stock-managment-api/internal/core/services"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

// --- Mock StockRepository ---
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetStockLevel(ctx context.Context, productID, sourceID string) (*domain.StockLevel, error) {
	args := m.Called(ctx, productID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) ListStockLevels(ctx context.Context, sourceID string) ([]domain.StockLevel, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockLevel), args.Error(1)
}

// --- Test Suite ---
type PricingServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	mockStockRepo   *MockStockRepository
	service         *services.PricingService
}

func (suite *PricingServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockStockRepo = new(MockStockRepository)
	suite.service = services.NewPricingService(suite.mockProductRepo, suite.mockStockRepo)
}

const testSourceID = "source-1"

func (suite *PricingServiceTestSuite) catalogWith(products ...domain.Product) map[string]domain.Product {
	catalog := make(map[string]domain.Product, len(products))
	for _, p := range products {
		catalog[p.ProductID] = p
	}
	return catalog
}

func (suite *PricingServiceTestSuite) stockLevel(productID string, quantity int64) *domain.StockLevel {
	return &domain.StockLevel{ProductID: productID, SourceID: testSourceID, Quantity: quantity}
}

func (suite *PricingServiceTestSuite) TestPriceSale_Success() {
	ctx := context.Background()
	reqItems := []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: 3},
		{ProductID: "prod-b", Quantity: 2, DiscountType: "fixed", DiscountAmount: dec("5")},
	}
	catalog := suite.catalogWith(
		domain.Product{ProductID: "prod-a", Name: "Widget", UnitPrice: dec("10"), IsActive: true},
		domain.Product{ProductID: "prod-b", Name: "Gadget", UnitPrice: dec("25"), IsActive: true},
	)

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a", "prod-b"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-a", testSourceID).Return(suite.stockLevel("prod-a", 10), nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-b", testSourceID).Return(suite.stockLevel("prod-b", 10), nil).Once()

	txnDiscount := domain.DiscountSpec{Type: domain.DiscountPercent, Percent: dec("10")}
	items, subtotal, finalPrice, stockChanges, err := suite.service.PriceSale(ctx, reqItems, testSourceID, txnDiscount)

	suite.Require().NoError(err)
	suite.Require().Len(items, 2)
	suite.True(dec("30").Equal(items[0].FinalPrice))
	suite.True(dec("45").Equal(items[1].FinalPrice))
	suite.True(dec("75").Equal(subtotal), "subtotal: got %s", subtotal)
	suite.True(dec("67.5").Equal(finalPrice), "final: got %s", finalPrice)
	suite.Equal(map[string]int64{"prod-a": 3, "prod-b": 2}, stockChanges)

	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestPriceSale_EmptyItems() {
	_, _, _, _, err := suite.service.PriceSale(context.Background(), nil, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrEmptySale)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs")
}

func (suite *PricingServiceTestSuite) TestPriceSale_InvalidTransactionDiscount() {
	reqItems := []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}}
	badDiscount := domain.DiscountSpec{Type: domain.DiscountPercent, Percent: dec("150")}

	_, _, _, _, err := suite.service.PriceSale(context.Background(), reqItems, testSourceID, badDiscount)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs")
}

func (suite *PricingServiceTestSuite) TestPriceSale_ProductNotFound() {
	ctx := context.Background()
	reqItems := []dto.SaleItemRequest{{ProductID: "prod-missing", Quantity: 1}}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-missing"}).Return(map[string]domain.Product{}, nil).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrProductNotFound)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestPriceSale_InactiveProduct() {
	ctx := context.Background()
	reqItems := []dto.SaleItemRequest{{ProductID: "prod-retired", Quantity: 1}}
	catalog := suite.catalogWith(domain.Product{ProductID: "prod-retired", UnitPrice: dec("10"), IsActive: false})

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-retired"}).Return(catalog, nil).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrProductInactive)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "GetStockLevel")
}

func (suite *PricingServiceTestSuite) TestPriceSale_StockBoundary() {
	ctx := context.Background()
	catalog := suite.catalogWith(domain.Product{ProductID: "prod-a", UnitPrice: dec("10"), IsActive: true})

	// Requesting exactly the available quantity passes the gate.
	reqItems := []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 5}}
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-a", testSourceID).Return(suite.stockLevel("prod-a", 5), nil).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())
	suite.Require().NoError(err)

	// One unit more fails it.
	reqItems = []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 6}}
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-a", testSourceID).Return(suite.stockLevel("prod-a", 5), nil).Once()

	_, _, _, _, err = suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestPriceSale_StockAggregatedAcrossLines() {
	ctx := context.Background()
	catalog := suite.catalogWith(domain.Product{ProductID: "prod-a", UnitPrice: dec("10"), IsActive: true})

	// Two lines for the same product: 3 + 3 = 6 requested against 5 available.
	reqItems := []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: 3},
		{ProductID: "prod-a", Quantity: 3},
	}
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a", "prod-a"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-a", testSourceID).Return(suite.stockLevel("prod-a", 5), nil).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *PricingServiceTestSuite) TestPriceSale_NotStockedCountsAsZero() {
	ctx := context.Background()
	catalog := suite.catalogWith(domain.Product{ProductID: "prod-a", UnitPrice: dec("10"), IsActive: true})
	reqItems := []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a"}).Return(catalog, nil).Once()
	suite.mockStockRepo.On("GetStockLevel", ctx, "prod-a", testSourceID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *PricingServiceTestSuite) TestPriceSale_InvalidItemDiscount() {
	ctx := context.Background()
	reqItems := []dto.SaleItemRequest{
		{ProductID: "prod-a", Quantity: 1, DiscountType: "percent", DiscountPercent: dec("101")},
	}
	catalog := suite.catalogWith(domain.Product{ProductID: "prod-a", UnitPrice: dec("10"), IsActive: true})
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{"prod-a"}).Return(catalog, nil).Once()

	_, _, _, _, err := suite.service.PriceSale(ctx, reqItems, testSourceID, domain.NoDiscount())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "GetStockLevel")
}

func TestPricingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PricingServiceTestSuite))
}
