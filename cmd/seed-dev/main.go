// seed-dev pushes a small demo dataset through the ledger service so
// both stores end up populated: two establishments, two employees,
// three products and a handful of transactions.
//
// Usage (from repo root):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/ledger"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"bitbucket.org/karoofoods/biltong_tracker/remote"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	remote.MigrateTable(db)

	dataDir := strings.TrimSpace(os.Getenv("BILTONG_DATA_DIR"))
	if dataDir == "" {
		dataDir = "biltong-data"
	}
	store, err := localstore.NewFileStore(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open blob store at %s: %v\n", dataDir, err)
		os.Exit(1)
	}

	repos := models.NewRepositories(store, logger)
	var outbox *ledger.Outbox
	if config.OutboxEnabled() {
		outbox = ledger.NewOutbox(store)
	}
	service := ledger.NewService(remote.NewStore(db, logger), repos, outbox, logger)

	est1 := mustSave(service.SaveEstablishment(ctx, models.NewEstablishment{
		Name:         "Karoo Padstal",
		Address:      "R62, Ladismith",
		ContactName:  "Elsabe du Toit",
		ContactPhone: "+27 28 551 1043",
		ContactEmail: "elsabe@karoopadstal.example",
	}))
	est2 := mustSave(service.SaveEstablishment(ctx, models.NewEstablishment{
		Name:         "Die Biltong Hoek",
		Address:      "14 Kerk Street, Oudtshoorn",
		ContactName:  "Pieter Marais",
		ContactPhone: "+27 44 272 8860",
		ContactEmail: "pieter@biltonghoek.example",
		Notes:        "Collects on Fridays",
	}))

	emp := mustSave(service.SaveEmployee(ctx, models.NewEmployee{
		Name:    "Thandi Nkosi",
		Email:   "thandi@karoofoods.example",
		Mobile:  "+27 82 330 9917",
		Address: "8 Voortrekker Road, Ladismith",
	}))

	biltong := mustSave(service.SaveProduct(ctx, models.NewProduct{
		Title:            "Beef Biltong 250g",
		Category:         "Biltong",
		Quantity:         120,
		LowStockLimit:    20,
		SellingUnitPrice: decimal.NewFromInt(85),
		BuyingUnitPrice:  decimal.NewFromInt(52),
	}))
	mustSave(service.SaveProduct(ctx, models.NewProduct{
		Title:            "Droewors 200g",
		Category:         "Droewors",
		Quantity:         60,
		LowStockLimit:    15,
		SellingUnitPrice: decimal.NewFromInt(70),
		BuyingUnitPrice:  decimal.NewFromInt(41),
	}))
	mustSave(service.SaveProduct(ctx, models.NewProduct{
		Title:            "Chilli Bites 150g",
		Category:         "Biltong",
		Quantity:         12,
		LowStockLimit:    15,
		SellingUnitPrice: decimal.NewFromInt(55),
		BuyingUnitPrice:  decimal.NewFromInt(33),
	}))

	now := time.Now().UTC()
	mustSave(service.SaveTransaction(ctx, models.NewTransaction{
		EstablishmentId: est1.ID,
		EmployeeId:      emp.ID,
		ProductId:       biltong.ID,
		Quantity:        24,
		Type:            models.TransactionTypeDelivery,
		Amount:          decimal.NewFromInt(2040),
		Date:            now.AddDate(0, 0, -7),
		PaymentStatus:   models.PaymentStatusCredit,
	}))
	mustSave(service.SaveTransaction(ctx, models.NewTransaction{
		EstablishmentId: est1.ID,
		EmployeeId:      emp.ID,
		Type:            models.TransactionTypePayment,
		Amount:          decimal.NewFromInt(1500),
		Date:            now.AddDate(0, 0, -2),
		PaymentStatus:   models.PaymentStatusPaid,
	}))
	mustSave(service.SaveTransaction(ctx, models.NewTransaction{
		EstablishmentId: est2.ID,
		EmployeeId:      emp.ID,
		ProductId:       biltong.ID,
		Quantity:        12,
		Type:            models.TransactionTypeDelivery,
		Amount:          decimal.NewFromInt(1020),
		Date:            now.AddDate(0, 0, -1),
		PaymentStatus:   models.PaymentStatusCredit,
	}))

	stats := models.ComputeDashboardStats(repos.Establishments.List(), repos.Transactions.List())
	fmt.Printf("seeded %d establishments, outstanding %s\n", stats.TotalEstablishments, stats.TotalOutstanding.String())
}

func mustSave[T any](result ledger.SaveResult[T]) T {
	if !result.Saved() {
		fmt.Fprintf(os.Stderr, "seed save failed (%s): %v\n", result.Status, result.Err)
		os.Exit(1)
	}
	return result.Record
}
