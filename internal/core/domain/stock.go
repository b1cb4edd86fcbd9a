package domain

// SourceType identifies which kind of location a sale draws stock from.
type SourceType string

const (
	SourceShop      SourceType = "SHOP"
	SourceWarehouse SourceType = "WAREHOUSE"
)

// StockLevel is a read-only snapshot of available quantity for a product at a
// source location. The sale engine never mutates these directly; decrements
// happen inside the sale-commit transaction in the repository.
type StockLevel struct {
	ProductID  string     `json:"productID"`
	SourceID   string     `json:"sourceID"`
	SourceType SourceType `json:"sourceType"`
	Quantity   int64      `json:"quantity"`
	AuditFields
}
