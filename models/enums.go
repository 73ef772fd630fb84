package models

type DocumentType string

const (
	DocumentTypeOrder    DocumentType = "order"
	DocumentTypeEstimate DocumentType = "estimate"
)

type DocumentStatus string

const (
	DocumentStatusCompleted DocumentStatus = "completed"
)

type PriceType string

const (
	PriceTypePurchase PriceType = "purchase"
	PriceTypeSales    PriceType = "sales"
)

type TransactionType string

const (
	TransactionTypeInbound  TransactionType = "inbound"
	TransactionTypeOutbound TransactionType = "outbound"
)

type AliasType string

const (
	AliasTypePurchase AliasType = "purchase"
)

// ReferenceType tags the origin of a derived inventory transaction.
// The migration only ever writes document-sourced rows.
type ReferenceType string

const (
	ReferenceTypeDocument ReferenceType = "document"
)
