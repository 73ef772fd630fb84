package models

import "github.com/shopspring/decimal"

// Product is a row of the products table as returned by the store.
type Product struct {
	ID           string          `json:"id"`
	InternalCode string          `json:"internal_code"`
	InternalName string          `json:"internal_name"`
	Type         string          `json:"type"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	IsActive     bool            `json:"is_active"`
}

// NewProduct is the insert shape for a canonical product derived from a
// name group. Migrated products start inactive-stock and are typed
// "finished" across the board; nothing in the source documents
// distinguishes raw materials.
type NewProduct struct {
	InternalCode string `json:"internal_code"`
	InternalName string `json:"internal_name"`
	Type         string `json:"type"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
	IsActive     bool   `json:"is_active"`
}

// CompanyProductAlias records the name a company uses for a canonical
// product. One alias per (company, product) per run: the most frequent
// (name, spec) pair wins.
type CompanyProductAlias struct {
	CompanyID    string    `json:"company_id"`
	ProductID    string    `json:"product_id"`
	AliasType    AliasType `json:"alias_type"`
	ExternalName string    `json:"external_name"`
	ExternalSpec *string   `json:"external_spec"`
	IsDefault    bool      `json:"is_default"`
	UseCount     int       `json:"use_count"`
}

// ProductStockPatch updates a product's current stock after ledger replay.
type ProductStockPatch struct {
	CurrentStock decimal.Decimal `json:"current_stock"`
}
