package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/wooyangcrm/catalog-migrate/config"
	"github.com/wooyangcrm/catalog-migrate/models"
	"github.com/wooyangcrm/catalog-migrate/supabase"
	"github.com/wooyangcrm/catalog-migrate/utils"
)

// Store is the slice of the tabular store the reconstructor needs;
// satisfied by *supabase.Client.
type Store interface {
	FetchAll(ctx context.Context, table string, q supabase.ListQuery) ([]json.RawMessage, error)
	Insert(ctx context.Context, table string, records any, returning bool) ([]json.RawMessage, error)
	UpdateWhere(ctx context.Context, table string, filter url.Values, patch any) error
}

// DefaultBatchSize is the insert batch size for price and transaction rows.
const DefaultBatchSize = 100

// Summary carries the operator-facing counters of a ledger run.
type Summary struct {
	LinkedItems          int
	DocumentsLoaded      int
	PriceRows            int
	PriceRowsInserted    int
	Transactions         int
	TransactionsInserted int
	StockUpdates         int
	PositiveStock        int
	ClampedStock         int
	ZeroStock            int
}

// Result keeps the derived records in memory for reports and tests.
type Result struct {
	Summary
	PriceHistory []models.PriceHistory
	Ledger       []models.ProductTransaction
	Balances     *Balances
}

// Reconstructor replays completed documents chronologically to derive price
// history and the signed inventory ledger, then folds the ledger into final
// stock levels. The catalog pipeline must have run first: everything here
// hangs off the product ids it stamped onto document_items.
type Reconstructor struct {
	store     Store
	logger    *logrus.Logger
	BatchSize int
	DryRun    bool
	Pace      time.Duration
}

func NewReconstructor(store Store, logger *logrus.Logger) *Reconstructor {
	return &Reconstructor{
		store:     store,
		logger:    logger,
		BatchSize: DefaultBatchSize,
		Pace:      300 * time.Millisecond,
	}
}

func (r *Reconstructor) Run(ctx context.Context) (*Result, error) {
	fmt.Println("STEP 1: loading linked document_items")
	items := r.fetchLinkedItems(ctx)
	fmt.Printf("  linked items: %d\n", len(items))

	docMap := r.fetchDocuments(ctx)
	fmt.Printf("  documents: %d\n", len(docMap))

	res := &Result{Summary: Summary{
		LinkedItems:     len(items),
		DocumentsLoaded: len(docMap),
	}}
	if len(items) == 0 {
		return res, nil
	}

	fmt.Println("STEP 2: deriving product_price_history")
	res.PriceHistory = BuildPriceHistory(items, docMap)
	res.PriceRows = len(res.PriceHistory)
	fmt.Printf("  price history rows: %d\n", res.PriceRows)

	fmt.Println("STEP 3: replaying completed documents")
	res.Ledger, res.Balances = ReplayTransactions(items, docMap)
	res.Transactions = len(res.Ledger)
	fmt.Printf("  transactions: %d\n", res.Transactions)

	r.countBalances(res)

	if r.DryRun {
		fmt.Println("dry-run: skipping inserts and stock updates")
		return res, nil
	}

	res.PriceRowsInserted = insertBatches(ctx, r, "product_price_history", res.PriceHistory)
	fmt.Printf("  price history inserted: %d\n", res.PriceRowsInserted)

	res.TransactionsInserted = insertBatches(ctx, r, "product_transactions", res.Ledger)
	fmt.Printf("  transactions inserted: %d\n", res.TransactionsInserted)

	fmt.Println("STEP 4: updating products.current_stock")
	r.updateStock(ctx, res)
	fmt.Printf("  stock updates: %d\n", res.StockUpdates)

	return res, nil
}

func (r *Reconstructor) fetchLinkedItems(ctx context.Context) []*models.DocumentItem {
	rows, err := r.store.FetchAll(ctx, "document_items", supabase.ListQuery{
		Select: "id,document_id,product_id,name,spec,quantity,unit,unit_price,amount",
		Filter: url.Values{"product_id": {"not.is.null"}},
	})
	if err != nil {
		config.LogError(r.logger, "ledger", "fetchLinkedItems", "document_items fetch incomplete", len(rows), err)
	}
	items := make([]*models.DocumentItem, 0, len(rows))
	for _, raw := range rows {
		var item models.DocumentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items
}

func (r *Reconstructor) fetchDocuments(ctx context.Context) map[string]*models.Document {
	rows, err := r.store.FetchAll(ctx, "documents", supabase.ListQuery{
		Select: "id,type,date,company_id,status",
	})
	if err != nil {
		config.LogError(r.logger, "ledger", "fetchDocuments", "documents fetch incomplete", len(rows), err)
	}
	docMap := make(map[string]*models.Document, len(rows))
	for _, raw := range rows {
		var doc models.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docMap[doc.ID] = &doc
	}
	return docMap
}

// insertBatches writes derived rows in fixed-size batches. A failed batch is
// logged and counted as zero rows written; there is no per-row fallback for
// derived facts since a rerun regenerates them identically.
func insertBatches[T any](ctx context.Context, r *Reconstructor, table string, records []T) int {
	inserted := 0
	for start := 0; start < len(records); start += r.BatchSize {
		end := start + r.BatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if _, err := r.store.Insert(ctx, table, batch, false); err != nil {
			config.LogError(r.logger, "ledger", "insertBatches", table, len(batch), err)
		} else {
			inserted += len(batch)
		}

		if end%5000 == 0 || end == len(records) {
			fmt.Printf("  ... %d/%d processed (%d inserted)\n", end, len(records), inserted)
		}
		utils.SleepEvery(start/r.BatchSize, 20, r.Pace)
	}
	return inserted
}

func (r *Reconstructor) countBalances(res *Result) {
	for _, productID := range res.Balances.ProductIDs() {
		stock := res.Balances.Stock(productID)
		switch {
		case stock.IsPositive():
			res.PositiveStock++
		case stock.IsNegative():
			res.ClampedStock++
		default:
			res.ZeroStock++
		}
	}
}

// updateStock persists final stock per product that moved. Negative running
// balances clamp to zero; the clamp is logged with the lost quantity since
// no correction record is written. Products that never moved keep whatever
// stock value they already have.
func (r *Reconstructor) updateStock(ctx context.Context, res *Result) {
	for _, productID := range res.Balances.ProductIDs() {
		stock := res.Balances.Stock(productID)
		if stock.IsZero() {
			continue
		}
		if stock.IsNegative() {
			r.logger.WithFields(logrus.Fields{
				"product_id": productID,
				"balance":    stock.String(),
			}).Warn("negative final stock clamped to zero")
			stock = decimal.Zero
		}

		filter := url.Values{"id": {"eq." + productID}}
		if err := r.store.UpdateWhere(ctx, "products", filter, models.ProductStockPatch{CurrentStock: stock}); err != nil {
			config.LogError(r.logger, "ledger", "updateStock", productID, stock.String(), err)
			continue
		}
		res.StockUpdates++

		if res.StockUpdates%500 == 0 {
			fmt.Printf("  ... %d stock updates\n", res.StockUpdates)
			time.Sleep(r.Pace)
		}
	}
}
