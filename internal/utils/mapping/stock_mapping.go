package mapping

import (
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/esmaelhussen/stock-managment-api/internal/models"
)

// ToDomainStockLevel converts a model StockLevel to a domain StockLevel
func ToDomainStockLevel(m models.StockLevel) domain.StockLevel {
	return domain.StockLevel{
		ProductID:   m.ProductID,
		SourceID:    m.SourceID,
		SourceType:  domain.SourceType(m.SourceType),
		Quantity:    m.Quantity,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStockLevelSlice converts model StockLevels to domain StockLevels
func ToDomainStockLevelSlice(ms []models.StockLevel) []domain.StockLevel {
	ds := make([]domain.StockLevel, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockLevel(m)
	}
	return ds
}
