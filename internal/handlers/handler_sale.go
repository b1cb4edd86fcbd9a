package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/esmaelhussen/stock-managment-api/internal/apperrors"
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/core/services"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
	"github.com/esmaelhussen/stock-managment-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SaleHandler handles HTTP requests for sale transactions and credit payments.
type SaleHandler struct {
	saleService   portssvc.SaleSvcFacade
	creditService portssvc.CreditSvcFacade
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleService portssvc.SaleSvcFacade, creditService portssvc.CreditSvcFacade) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		creditService: creditService,
	}
}

// CreateSale godoc
// @Summary Create a sale transaction
// @Description Prices the draft sale, enforces the stock availability gate, plans credit terms for credit sales, and persists the transaction atomically with the stock decrement
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   sale body dto.CreateSaleTransactionRequest true "Draft sale"
// @Success 201 {object} dto.SaleTransactionResponse "The persisted sale with computed totals"
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 500 {object} map[string]string "Failed to create sale"
// @Router /sales-transactions [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateSaleTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientStock):
			logger.Warn("Sale rejected by stock gate", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, services.ErrProductNotFound):
			logger.Warn("Validation error creating sale", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create sale in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale"})
		}
		return
	}

	logger.Info("Sale created successfully", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusCreated, dto.ToSaleTransactionResponse(sale))
}

// GetSale godoc
// @Summary Get a sale transaction
// @Description Retrieves a sale with its items and credit state by sale ID
// @Tags sales
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleTransactionResponse "The sale"
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 500 {object} map[string]string "Failed to retrieve sale"
// @Router /sales-transactions/{saleID} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Sale not found", slog.String("sale_id", saleID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
			return
		}
		logger.Error("Failed to get sale from service", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleTransactionResponse(sale))
}

// ListSales godoc
// @Summary List sale transactions
// @Description Retrieves sales filtered by source with limit/offset paging
// @Tags sales
// @Produce  json
// @Param   sourceID query string false "Source (shop/warehouse) ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.SaleTransactionResponse "Sales"
// @Failure 500 {object} map[string]string "Failed to list sales"
// @Router /sales-transactions [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListSalesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for ListSales", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	sales, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list sales", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSaleTransactionResponse(sales))
}

// ApplyCreditPayment godoc
// @Summary Record a credit payment
// @Description Applies a partial payment against the credit ledger of a sale; overpayment is rejected rather than clamped
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Param   payment body dto.CreditPaymentRequest true "Payment amount"
// @Success 200 {object} dto.CreditPaymentResponse "Updated ledger state"
// @Failure 400 {object} map[string]string "Invalid or excessive payment amount"
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 409 {object} map[string]string "Sale already settled"
// @Failure 500 {object} map[string]string "Failed to apply payment"
// @Router /sales-transactions/{saleID}/credit-payment [post]
func (h *SaleHandler) ApplyCreditPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	req := dto.CreditPaymentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ApplyCreditPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.creditService.ApplyPayment(c.Request.Context(), saleID, req.Amount, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		case errors.Is(err, domain.ErrAlreadySettled):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidPaymentAmount),
			errors.Is(err, domain.ErrExceedsRemaining),
			errors.Is(err, domain.ErrNotCreditSale):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to apply credit payment", slog.String("error", err.Error()), slog.String("sale_id", saleID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply payment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CreditPaymentResponse{
		SaleID:          sale.SaleID,
		PaidAmount:      sale.Credit.PaidAmount,
		RemainingAmount: sale.Remaining(),
		Status:          string(sale.Status),
	})
}

// CheckOverdue godoc
// @Summary Run the overdue sweep
// @Description Advances due dates on unpaid credit sales whose next due date has passed and flags them overdue
// @Tags sales
// @Produce  json
// @Success 200 {object} dto.CheckOverdueResponse "Flagged sale IDs"
// @Failure 500 {object} map[string]string "Failed to check overdue sales"
// @Router /sales-transactions/check-overdue [post]
func (h *SaleHandler) CheckOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	overdueIDs, err := h.creditService.CheckOverdue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		logger.Error("Failed to run overdue sweep", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check overdue sales"})
		return
	}

	c.JSON(http.StatusOK, dto.CheckOverdueResponse{
		OverdueSaleIDs: overdueIDs,
		Count:          len(overdueIDs),
	})
}
