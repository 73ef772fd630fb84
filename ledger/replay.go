package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wooyangcrm/catalog-migrate/models"
)

// fallbackDate stands in for documents whose date never parsed out of the
// legacy system.
const fallbackDate = "2024-01-01"

// BuildPriceHistory derives deduplicated price facts from the linked items
// of completed documents. Iteration order is input order and the first
// occurrence of each exact (product, company, date, type, price) key wins;
// later conflicting prices for the same key are dropped, not averaged or
// superseded.
func BuildPriceHistory(items []*models.DocumentItem, docMap map[string]*models.Document) []models.PriceHistory {
	var records []models.PriceHistory
	seen := map[string]struct{}{}

	for _, item := range items {
		doc := docMap[item.DocumentID]
		if doc == nil || !doc.IsCompleted() || item.ProductID == "" {
			continue
		}

		unitPrice, err := decimal.NewFromString(item.UnitPrice.String())
		if err != nil || !unitPrice.IsPositive() {
			continue
		}

		priceType := models.PriceTypeSales
		if doc.Type == models.DocumentTypeOrder {
			priceType = models.PriceTypePurchase
		}

		key := fmt.Sprintf("%s|%s|%s|%s|%s", item.ProductID, doc.CompanyID, doc.Date, priceType, unitPrice.String())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var spec *string
		if s := strings.TrimSpace(item.Spec); s != "" {
			spec = &s
		}

		effectiveDate := doc.Date
		if effectiveDate == "" {
			effectiveDate = fallbackDate
		}

		records = append(records, models.PriceHistory{
			ProductID:     item.ProductID,
			CompanyID:     doc.CompanyID,
			PriceType:     priceType,
			UnitPrice:     unitPrice,
			Spec:          spec,
			DocumentID:    item.DocumentID,
			DocumentType:  doc.Type,
			EffectiveDate: effectiveDate,
		})
	}
	return records
}

// Balances holds per-product running stock at the end of replay, with the
// order products were first touched so downstream writes are deterministic.
type Balances struct {
	stock map[string]decimal.Decimal
	order []string
}

func newBalances() *Balances {
	return &Balances{stock: map[string]decimal.Decimal{}}
}

func (b *Balances) get(productID string) decimal.Decimal {
	return b.stock[productID]
}

func (b *Balances) set(productID string, v decimal.Decimal) {
	if _, seen := b.stock[productID]; !seen {
		b.order = append(b.order, productID)
	}
	b.stock[productID] = v
}

// ProductIDs returns products in first-touched order.
func (b *Balances) ProductIDs() []string { return b.order }

// Stock returns the final running balance of a product.
func (b *Balances) Stock(productID string) decimal.Decimal { return b.stock[productID] }

// ReplayTransactions walks the items of completed documents in document
// date order and derives the signed stock ledger. The sort is stable with
// input order as the secondary order; items without a date sort first on
// the empty string. Balance correctness depends on exactly this ordering
// being reproduced, so the returned transactions chain without gaps:
// each row's StockAfter is the next row's StockBefore for that product.
func ReplayTransactions(items []*models.DocumentItem, docMap map[string]*models.Document) ([]models.ProductTransaction, *Balances) {
	type dated struct {
		date string
		item *models.DocumentItem
		doc  *models.Document
	}

	var completed []dated
	for _, item := range items {
		doc := docMap[item.DocumentID]
		if doc == nil || !doc.IsCompleted() || item.ProductID == "" {
			continue
		}
		completed = append(completed, dated{date: doc.Date, item: item, doc: doc})
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].date < completed[j].date
	})

	balances := newBalances()
	var records []models.ProductTransaction

	for _, d := range completed {
		qty := models.ParseQuantity(d.item.Quantity)
		if !qty.IsPositive() {
			continue
		}

		var txType models.TransactionType
		var signedQty decimal.Decimal
		var notes string
		switch d.doc.Type {
		case models.DocumentTypeOrder:
			txType = models.TransactionTypeInbound
			signedQty = qty
			notes = "발주서 완료 자동 처리"
		case models.DocumentTypeEstimate:
			txType = models.TransactionTypeOutbound
			signedQty = qty.Neg()
			notes = "견적서 완료 자동 처리"
		default:
			continue
		}

		stockBefore := balances.get(d.item.ProductID)
		stockAfter := stockBefore.Add(signedQty)
		balances.set(d.item.ProductID, stockAfter)

		txDate := d.date
		if txDate == "" {
			txDate = fallbackDate
		}

		records = append(records, models.ProductTransaction{
			ProductID:       d.item.ProductID,
			TransactionType: txType,
			Quantity:        signedQty,
			StockBefore:     stockBefore,
			StockAfter:      stockAfter,
			ReferenceType:   models.ReferenceTypeDocument,
			ReferenceID:     d.doc.ID,
			Notes:           notes,
			TransactionDate: txDate,
		})
	}
	return records, balances
}
