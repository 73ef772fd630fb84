package models

import "encoding/json"

// Document is the read-only parent record of line items. Only completed
// documents may affect inventory and price history.
type Document struct {
	ID        string         `json:"id"`
	Type      DocumentType   `json:"type"`
	Date      string         `json:"date"`
	CompanyID string         `json:"company_id"`
	Status    DocumentStatus `json:"status"`
}

func (d *Document) IsCompleted() bool {
	return d.Status == DocumentStatusCompleted
}

// DocumentItem is a raw free-text line item. Quantity is text and may carry
// a unit suffix ("100EA", "5롤"); UnitPrice arrives as a JSON number that can
// be null, so it stays a json.Number until a pipeline needs it.
type DocumentItem struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id"`
	ProductID  string      `json:"product_id"`
	Name       string      `json:"name"`
	Spec       string      `json:"spec"`
	Quantity   string      `json:"quantity"`
	Unit       string      `json:"unit"`
	UnitPrice  json.Number `json:"unit_price"`
	Amount     json.Number `json:"amount"`
}

// DocumentItemLink is the partial record PATCHed onto document_items when
// back-linking them to a created product.
type DocumentItemLink struct {
	ProductID    string `json:"product_id"`
	InternalName string `json:"internal_name"`
}
