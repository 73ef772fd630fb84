// Package reports writes xlsx audit workbooks for migration runs so the
// created catalog and reconstructed stock can be eyeballed outside the
// database.
package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wooyangcrm/catalog-migrate/catalog"
	"github.com/wooyangcrm/catalog-migrate/ledger"
)

// WriteCatalogReport exports the product candidates of a catalog run.
func WriteCatalogReport(path string, res *catalog.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Code")
	f.SetCellValue(sheet, "B1", "Name")
	f.SetCellValue(sheet, "C1", "Unit")
	f.SetCellValue(sheet, "D1", "Items")
	f.SetCellValue(sheet, "E1", "Specs")
	f.SetCellValue(sheet, "F1", "ProductId")

	for i, c := range res.Candidates {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, c.InternalCode)
		f.SetCellValue(sheet, "B"+row, c.InternalName)
		f.SetCellValue(sheet, "C"+row, c.Unit)
		f.SetCellValue(sheet, "D"+row, len(c.ItemIDs))
		f.SetCellValue(sheet, "E"+row, c.SpecCount)
		f.SetCellValue(sheet, "F"+row, res.ProductIDs[c.Key])
	}

	return f.SaveAs(path)
}

// WriteLedgerReport exports final balances of a ledger run, one row per
// product that moved, flagging clamped negatives.
func WriteLedgerReport(path string, res *ledger.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Stock"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "ProductId")
	f.SetCellValue(sheet, "B1", "FinalBalance")
	f.SetCellValue(sheet, "C1", "Clamped")

	for i, productID := range res.Balances.ProductIDs() {
		stock := res.Balances.Stock(productID)
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, productID)
		f.SetCellValue(sheet, "B"+row, stock.String())
		f.SetCellValue(sheet, "C"+row, stock.IsNegative())
	}

	return f.SaveAs(path)
}
