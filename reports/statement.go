// Package reports renders workbook exports of the ledger for the
// operator: per-establishment statements and the dashboard summary.
package reports

import (
	"fmt"
	"sort"

	"bitbucket.org/karoofoods/biltong_tracker/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportEstablishmentStatement writes one sheet of dated transactions
// with a running balance, oldest first.
func ExportEstablishmentStatement(est models.EstablishmentWithTransactions, filename string) error {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Date")
	f.SetCellValue(sheetName, "B1", "Type")
	f.SetCellValue(sheetName, "C1", "Quantity")
	f.SetCellValue(sheetName, "D1", "Amount")
	f.SetCellValue(sheetName, "E1", "PaymentStatus")
	f.SetCellValue(sheetName, "F1", "RunningBalance")

	transactions := make([]models.Transaction, len(est.Transactions))
	copy(transactions, est.Transactions)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	running := decimal.Zero
	for i, txn := range transactions {
		if txn.Type == models.TransactionTypeDelivery {
			running = running.Add(txn.Amount)
		} else {
			running = running.Sub(txn.Amount)
		}
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, txn.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, "B"+row, string(txn.Type))
		if txn.Quantity > 0 {
			f.SetCellValue(sheetName, "C"+row, txn.Quantity)
		}
		f.SetCellValue(sheetName, "D"+row, txn.Amount.String())
		f.SetCellValue(sheetName, "E"+row, string(txn.PaymentStatus))
		f.SetCellValue(sheetName, "F"+row, running.String())
	}

	summaryRow := fmt.Sprint(len(transactions) + 3)
	f.SetCellValue(sheetName, "A"+summaryRow, est.Name)
	f.SetCellValue(sheetName, "E"+summaryRow, "Balance")
	f.SetCellValue(sheetName, "F"+summaryRow, est.Balance.String())

	return f.SaveAs(filename)
}

// ExportDashboardWorkbook writes the dashboard totals, per-establishment
// balances and the low-stock list into one workbook.
func ExportDashboardWorkbook(stats models.DashboardStats, establishments []models.EstablishmentWithTransactions, products []models.Product, filename string) error {
	f := excelize.NewFile()

	summary := "Summary"
	if err := renameDefaultSheet(f, summary); err != nil {
		return err
	}
	f.SetCellValue(summary, "A1", "TotalEstablishments")
	f.SetCellValue(summary, "B1", stats.TotalEstablishments)
	f.SetCellValue(summary, "A2", "TotalDeliveries")
	f.SetCellValue(summary, "B2", stats.TotalDeliveries.String())
	f.SetCellValue(summary, "A3", "TotalPayments")
	f.SetCellValue(summary, "B3", stats.TotalPayments.String())
	f.SetCellValue(summary, "A4", "TotalOutstanding")
	f.SetCellValue(summary, "B4", stats.TotalOutstanding.String())

	balances := "Balances"
	if _, err := f.NewSheet(balances); err != nil {
		return err
	}
	f.SetCellValue(balances, "A1", "Establishment")
	f.SetCellValue(balances, "B1", "Transactions")
	f.SetCellValue(balances, "C1", "Balance")
	for i, est := range establishments {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(balances, "A"+row, est.Name)
		f.SetCellValue(balances, "B"+row, len(est.Transactions))
		f.SetCellValue(balances, "C"+row, est.Balance.String())
	}

	lowStock := "LowStock"
	if _, err := f.NewSheet(lowStock); err != nil {
		return err
	}
	f.SetCellValue(lowStock, "A1", "ProductId")
	f.SetCellValue(lowStock, "B1", "Title")
	f.SetCellValue(lowStock, "C1", "Quantity")
	f.SetCellValue(lowStock, "D1", "LowStockLimit")
	for i, p := range models.LowStockProducts(products) {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(lowStock, "A"+row, p.ProductId)
		f.SetCellValue(lowStock, "B"+row, p.Title)
		f.SetCellValue(lowStock, "C"+row, p.Quantity)
		f.SetCellValue(lowStock, "D"+row, p.LowStockLimit)
	}

	return f.SaveAs(filename)
}

func renameDefaultSheet(f *excelize.File, name string) error {
	return f.SetSheetName("Sheet1", name)
}
