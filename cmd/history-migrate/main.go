package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wooyangcrm/catalog-migrate/config"
	"github.com/wooyangcrm/catalog-migrate/ledger"
	"github.com/wooyangcrm/catalog-migrate/reports"
	"github.com/wooyangcrm/catalog-migrate/supabase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Derive and summarize without writing")
	reportPath := flag.String("report", "", "Optional: write an xlsx audit report to this path")
	batchSize := flag.Int("batch-size", ledger.DefaultBatchSize, "Insert batch size for price and transaction rows")
	envFile := flag.String("env", "", "Optional: dotenv file with SUPABASE_URL / SUPABASE_ANON_KEY")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := config.GetLogger()
	store := supabase.New(cfg, logger)

	rec := ledger.NewReconstructor(store, logger)
	rec.BatchSize = *batchSize
	rec.DryRun = *dryRun

	res, err := rec.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "history migration failed: %v\n", err)
		os.Exit(1)
	}
	if res.LinkedItems == 0 {
		fmt.Fprintln(os.Stderr, "no linked document_items found; run product-migrate first")
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := reports.WriteLedgerReport(*reportPath, res); err != nil {
			fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		} else {
			fmt.Printf("report written: %s\n", *reportPath)
		}
	}

	fmt.Println("============================================================")
	fmt.Printf("price history rows:   %d\n", res.PriceRowsInserted)
	fmt.Printf("transactions:         %d\n", res.TransactionsInserted)
	fmt.Printf("stock updates:        %d\n", res.StockUpdates)
	fmt.Printf("positive stock:       %d products\n", res.PositiveStock)
	fmt.Printf("negative stock (->0): %d products\n", res.ClampedStock)
	fmt.Printf("zero stock:           %d products\n", res.ZeroStock)
	fmt.Println("history migration complete")
}
