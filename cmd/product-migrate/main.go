package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wooyangcrm/catalog-migrate/catalog"
	"github.com/wooyangcrm/catalog-migrate/config"
	"github.com/wooyangcrm/catalog-migrate/reports"
	"github.com/wooyangcrm/catalog-migrate/supabase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Group and summarize without writing")
	reportPath := flag.String("report", "", "Optional: write an xlsx audit report to this path")
	batchSize := flag.Int("batch-size", catalog.DefaultBatchSize, "Product insert batch size")
	envFile := flag.String("env", "", "Optional: dotenv file with SUPABASE_URL / SUPABASE_ANON_KEY")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := config.GetLogger()
	store := supabase.New(cfg, logger)

	builder := catalog.NewBuilder(store, logger)
	builder.BatchSize = *batchSize
	builder.DryRun = *dryRun

	res, err := builder.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "product migration failed: %v\n", err)
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := reports.WriteCatalogReport(*reportPath, res); err != nil {
			fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		} else {
			fmt.Printf("report written: %s\n", *reportPath)
		}
	}

	fmt.Println("============================================================")
	fmt.Printf("products created:      %d\n", res.ProductsCreated)
	fmt.Printf("document_items linked: %d\n", res.ItemsLinked)
	fmt.Printf("aliases created:       %d\n", res.AliasesCreated)
	fmt.Printf("items skipped:         %d\n", res.Skipped)
	fmt.Println("product migration complete")
}
