package ledger_test

import (
	"testing"

	"github.com/wooyangcrm/catalog-migrate/ledger"
	"github.com/wooyangcrm/catalog-migrate/models"
)

func doc(id string, typ models.DocumentType, date, company string, status models.DocumentStatus) *models.Document {
	return &models.Document{ID: id, Type: typ, Date: date, CompanyID: company, Status: status}
}

func TestReplayTransactions_BalanceChain(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-01-01", "c1", models.DocumentStatusCompleted),
		"d2": doc("d2", models.DocumentTypeEstimate, "2024-01-02", "c1", models.DocumentStatusCompleted),
		"d3": doc("d3", models.DocumentTypeOrder, "2024-01-03", "c1", models.DocumentStatusCompleted),
	}
	items := []*models.DocumentItem{
		{ID: "i3", DocumentID: "d3", ProductID: "p1", Quantity: "5EA"},
		{ID: "i1", DocumentID: "d1", ProductID: "p1", Quantity: "10EA"},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", Quantity: "3EA"},
	}

	records, balances := ledger.ReplayTransactions(items, docMap)
	if len(records) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(records))
	}

	type step struct{ before, after, qty string }
	want := []step{{"0", "10", "10"}, {"10", "7", "-3"}, {"7", "12", "5"}}
	for i, w := range want {
		r := records[i]
		if r.StockBefore.String() != w.before || r.StockAfter.String() != w.after || r.Quantity.String() != w.qty {
			t.Fatalf("step %d: expected (%s,%s,%s), got (%s,%s,%s)",
				i, w.before, w.after, w.qty, r.StockBefore.String(), r.StockAfter.String(), r.Quantity.String())
		}
	}
	if records[0].TransactionType != models.TransactionTypeInbound {
		t.Errorf("order document should be inbound")
	}
	if records[1].TransactionType != models.TransactionTypeOutbound {
		t.Errorf("estimate document should be outbound")
	}
	if got := balances.Stock("p1"); got.String() != "12" {
		t.Fatalf("expected final balance 12, got %s", got.String())
	}

	// Chain property: each stock_after equals the next stock_before.
	for i := 0; i+1 < len(records); i++ {
		if !records[i].StockAfter.Equal(records[i+1].StockBefore) {
			t.Fatalf("gap between step %d and %d", i, i+1)
		}
	}
}

func TestReplayTransactions_OnlyCompletedDocuments(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-01-01", "c1", "draft"),
		"d2": doc("d2", models.DocumentTypeEstimate, "2024-01-02", "c1", "sent"),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", Quantity: "10EA"},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", Quantity: "3EA"},
	}
	records, balances := ledger.ReplayTransactions(items, docMap)
	if len(records) != 0 {
		t.Fatalf("non-completed documents must not move stock, got %d transactions", len(records))
	}
	if len(balances.ProductIDs()) != 0 {
		t.Fatal("no product should have been touched")
	}
}

func TestReplayTransactions_SkipsUnparseableAndUnknownTypes(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-01-01", "c1", models.DocumentStatusCompleted),
		"d2": doc("d2", "memo", "2024-01-02", "c1", models.DocumentStatusCompleted),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", Quantity: "abc"},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", Quantity: "10EA"},
		{ID: "i3", DocumentID: "d1", ProductID: "p1", Quantity: "2EA"},
	}
	records, _ := ledger.ReplayTransactions(items, docMap)
	if len(records) != 1 {
		t.Fatalf("expected only the parseable order item, got %d", len(records))
	}
	if records[0].ProductID != "p1" || records[0].Quantity.String() != "2" {
		t.Fatalf("unexpected surviving transaction: %+v", records[0])
	}
}

func TestReplayTransactions_MissingDateSortsFirst(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-05-01", "c1", models.DocumentStatusCompleted),
		"d2": doc("d2", models.DocumentTypeOrder, "", "c1", models.DocumentStatusCompleted),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", Quantity: "10EA"},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", Quantity: "5EA"},
	}
	records, _ := ledger.ReplayTransactions(items, docMap)
	if len(records) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(records))
	}
	if records[0].ReferenceID != "d2" {
		t.Fatalf("dateless document should replay first, got %s", records[0].ReferenceID)
	}
	if records[0].TransactionDate != "2024-01-01" {
		t.Fatalf("dateless transaction should use the fallback date, got %s", records[0].TransactionDate)
	}
	if records[0].StockBefore.String() != "0" || records[1].StockBefore.String() != "5" {
		t.Fatal("running balance must follow replay order")
	}
}

func TestReplayTransactions_NegativeFinalBalance(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeEstimate, "2024-01-01", "c1", models.DocumentStatusCompleted),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", Quantity: "4EA"},
	}
	records, balances := ledger.ReplayTransactions(items, docMap)
	if len(records) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(records))
	}
	if records[0].StockAfter.String() != "-4" {
		t.Fatalf("ledger keeps the true negative balance, got %s", records[0].StockAfter.String())
	}
	if got := balances.Stock("p1"); got.String() != "-4" {
		t.Fatalf("expected -4 running balance, got %s", got.String())
	}
}

func TestBuildPriceHistory_Dedup(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-01-01", "c1", models.DocumentStatusCompleted),
		"d2": doc("d2", models.DocumentTypeOrder, "2024-01-01", "c1", models.DocumentStatusCompleted),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", UnitPrice: "1500"},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", UnitPrice: "1500"},
		{ID: "i3", DocumentID: "d2", ProductID: "p1", UnitPrice: "1700"},
	}
	records := ledger.BuildPriceHistory(items, docMap)
	if len(records) != 2 {
		t.Fatalf("identical keys dedup to one row, differing price adds one: got %d", len(records))
	}
	if records[0].UnitPrice.String() != "1500" || records[1].UnitPrice.String() != "1700" {
		t.Fatalf("unexpected prices: %s, %s", records[0].UnitPrice.String(), records[1].UnitPrice.String())
	}
	// First-seen wins: the surviving 1500 row references d1.
	if records[0].DocumentID != "d1" {
		t.Fatalf("expected first-seen row to survive, got %s", records[0].DocumentID)
	}
}

func TestBuildPriceHistory_TypeAndFilters(t *testing.T) {
	docMap := map[string]*models.Document{
		"d1": doc("d1", models.DocumentTypeOrder, "2024-02-01", "c1", models.DocumentStatusCompleted),
		"d2": doc("d2", models.DocumentTypeEstimate, "", "c2", models.DocumentStatusCompleted),
		"d3": doc("d3", models.DocumentTypeEstimate, "2024-03-01", "c2", "draft"),
	}
	items := []*models.DocumentItem{
		{ID: "i1", DocumentID: "d1", ProductID: "p1", UnitPrice: "1000", Spec: " 50T "},
		{ID: "i2", DocumentID: "d2", ProductID: "p1", UnitPrice: "2000"},
		{ID: "i3", DocumentID: "d1", ProductID: "p1", UnitPrice: "0"},
		{ID: "i4", DocumentID: "d1", ProductID: "", UnitPrice: "900"},
		{ID: "i5", DocumentID: "missing", ProductID: "p1", UnitPrice: "900"},
		{ID: "i6", DocumentID: "d3", ProductID: "p1", UnitPrice: "800"},
	}
	records := ledger.BuildPriceHistory(items, docMap)
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}

	if records[0].PriceType != models.PriceTypePurchase {
		t.Errorf("order document should yield purchase price, got %s", records[0].PriceType)
	}
	if records[0].Spec == nil || *records[0].Spec != "50T" {
		t.Errorf("spec should be trimmed, got %v", records[0].Spec)
	}

	if records[1].PriceType != models.PriceTypeSales {
		t.Errorf("non-order document should yield sales price, got %s", records[1].PriceType)
	}
	if records[1].EffectiveDate != "2024-01-01" {
		t.Errorf("expected fallback effective date, got %s", records[1].EffectiveDate)
	}
	if records[1].Spec != nil {
		t.Errorf("empty spec should be nil, got %v", records[1].Spec)
	}
}
