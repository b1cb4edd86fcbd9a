package models

import "github.com/shopspring/decimal"

// Product is the products table row.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
