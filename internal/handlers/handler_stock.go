package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/esmaelhussen/stock-managment-api/internal/core/ports/services"
	"github.com/esmaelhussen/stock-managment-api/internal/dto"
	"github.com/esmaelhussen/stock-managment-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// StockHandler serves the stock snapshot endpoint.
type StockHandler struct {
	stockService portssvc.StockSvcFacade
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService portssvc.StockSvcFacade) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// AllStock godoc
// @Summary Get the stock snapshot
// @Description Returns available quantity per product per source; this is the snapshot the sale pricing gate reads
// @Tags stock
// @Produce  json
// @Param   sourceID query string false "Filter by source (shop/warehouse) ID"
// @Success 200 {array} dto.StockLevelResponse "Stock levels"
// @Failure 500 {object} map[string]string "Failed to load stock snapshot"
// @Router /stock-transactions/all-stock [get]
func (h *StockHandler) AllStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListStockParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for AllStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	levels, err := h.stockService.ListStock(c.Request.Context(), params.SourceID)
	if err != nil {
		logger.Error("Failed to load stock snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stock snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStockLevelResponses(levels))
}
