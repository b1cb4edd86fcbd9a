package models

// StockLevel is the stock_levels table row.
type StockLevel struct {
	ProductID  string `json:"productID"`
	SourceID   string `json:"sourceID"`
	SourceType string `json:"sourceType"`
	Quantity   int64  `json:"quantity"`
	AuditFields
}
