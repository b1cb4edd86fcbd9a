package mapping

import (
	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
	"github.com/esmaelhussen/stock-managment-api/internal/models"
)

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		Name:        m.Name,
		UnitPrice:   m.UnitPrice,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
