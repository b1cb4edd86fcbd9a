package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry. The sale engine only reads it for price lookup;
// product lifecycle is owned by the catalog CRUD, not this core.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
