// export-statement renders xlsx reports from the local store: a
// statement for one establishment, or the dashboard workbook when no
// establishment is given.
//
// Usage:
//   go run ./cmd/export-statement -out dashboard.xlsx
//   go run ./cmd/export-statement -establishment <id> -out statement.xlsx
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"bitbucket.org/karoofoods/biltong_tracker/reports"
)

func main() {
	establishmentId := flag.String("establishment", "", "establishment id; empty exports the dashboard workbook")
	out := flag.String("out", "export.xlsx", "output file")
	flag.Parse()

	dataDir := strings.TrimSpace(os.Getenv("BILTONG_DATA_DIR"))
	if dataDir == "" {
		dataDir = "biltong-data"
	}
	store, err := localstore.NewFileStore(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open blob store at %s: %v\n", dataDir, err)
		os.Exit(1)
	}

	repos := models.NewRepositories(store, config.GetLogger())
	establishments := repos.Establishments.List()
	transactions := repos.Transactions.List()

	if *establishmentId == "" {
		stats := models.ComputeDashboardStats(establishments, transactions)
		withTx := models.WithTransactions(establishments, transactions)
		if err := reports.ExportDashboardWorkbook(stats, withTx, repos.Products.List(), *out); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote " + *out)
		return
	}

	for _, est := range models.WithTransactions(establishments, transactions) {
		if est.ID != *establishmentId {
			continue
		}
		if err := reports.ExportEstablishmentStatement(est, *out); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote " + *out)
		return
	}
	fmt.Fprintf(os.Stderr, "establishment %s not found in local store\n", *establishmentId)
	os.Exit(2)
}
