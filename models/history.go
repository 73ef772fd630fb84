package models

import "github.com/shopspring/decimal"

// PriceHistory is a derived price fact. Rows are deduplicated before insert
// by the exact (product, company, date, type, price) key; conflicting prices
// under the same key are never averaged or superseded.
type PriceHistory struct {
	ProductID     string          `json:"product_id"`
	CompanyID     string          `json:"company_id"`
	PriceType     PriceType       `json:"price_type"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Spec          *string         `json:"spec"`
	DocumentID    string          `json:"document_id"`
	DocumentType  DocumentType    `json:"document_type"`
	EffectiveDate string          `json:"effective_date"`
}

// ProductTransaction is one step of a product's reconstructed stock ledger.
// Quantity is signed (outbound rows are negative) and StockAfter must equal
// StockBefore plus Quantity; consecutive rows for a product chain without
// gaps when replayed in the order they were generated.
type ProductTransaction struct {
	ProductID       string          `json:"product_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	StockBefore     decimal.Decimal `json:"stock_before"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	ReferenceType   ReferenceType   `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	Notes           string          `json:"notes"`
	TransactionDate string          `json:"transaction_date"`
}
