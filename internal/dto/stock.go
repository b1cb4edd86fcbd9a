package dto

import (
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

// ListStockParams defines query parameters for the stock snapshot.
type ListStockParams struct {
	SourceID string `form:"sourceID"`
}

// StockLevelResponse is one row of the stock snapshot.
type StockLevelResponse struct {
	ProductID  string `json:"productID"`
	SourceID   string `json:"sourceID"`
	SourceType string `json:"sourceType"`
	Quantity   int64  `json:"quantity"`
}

// ToStockLevelResponses converts domain stock levels to DTOs.
func ToStockLevelResponses(levels []domain.StockLevel) []StockLevelResponse {
	res := make([]StockLevelResponse, len(levels))
	for i, l := range levels {
		res[i] = StockLevelResponse{
			ProductID:  l.ProductID,
			SourceID:   l.SourceID,
			SourceType: string(l.SourceType),
			Quantity:   l.Quantity,
		}
	}
	return res
}
