package models_test

import (
	"testing"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/models"
	"github.com/shopspring/decimal"
)

func txnFor(establishmentId string, txnType models.TransactionType, amount int64, createdAt time.Time) models.Transaction {
	return models.Transaction{
		ID:              establishmentId + "-" + string(txnType) + "-" + createdAt.Format(time.RFC3339Nano),
		EstablishmentId: establishmentId,
		EmployeeId:      "emp-1",
		Type:            txnType,
		Amount:          decimal.NewFromInt(amount),
		Date:            createdAt,
		PaymentStatus:   models.PaymentStatusCredit,
		CreatedAt:       createdAt,
	}
}

func TestBalanceForFoldsDeliveriesMinusPayments(t *testing.T) {
	base := nowForTest()
	transactions := []models.Transaction{
		txnFor("est-1", models.TransactionTypeDelivery, 500, base),
		txnFor("est-1", models.TransactionTypePayment, 200, base.Add(time.Hour)),
		txnFor("est-1", models.TransactionTypeDelivery, 100, base.Add(2*time.Hour)),
		txnFor("est-2", models.TransactionTypeDelivery, 9999, base),
	}

	got := models.BalanceFor("est-1", transactions)
	if !got.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("500 - 200 + 100 must balance to 400, got %s", got)
	}
}

func TestBalanceForIsOrderIndependent(t *testing.T) {
	base := nowForTest()
	transactions := []models.Transaction{
		txnFor("est-1", models.TransactionTypePayment, 200, base),
		txnFor("est-1", models.TransactionTypeDelivery, 100, base),
		txnFor("est-1", models.TransactionTypeDelivery, 500, base),
	}
	reversed := []models.Transaction{transactions[2], transactions[1], transactions[0]}

	if !models.BalanceFor("est-1", transactions).Equal(models.BalanceFor("est-1", reversed)) {
		t.Fatal("fold order must not change the balance")
	}
}

func TestBalanceForEmptyIsZero(t *testing.T) {
	if got := models.BalanceFor("est-1", nil); !got.Equal(decimal.Zero) {
		t.Fatalf("no transactions must balance to zero, got %s", got)
	}
}

func TestWithTransactionsIncludesEveryEstablishmentOnce(t *testing.T) {
	base := nowForTest()
	establishments := []models.Establishment{
		{ID: "est-1", Name: "Karoo Padstal"},
		{ID: "est-2", Name: "Die Biltong Hoek"},
	}
	transactions := []models.Transaction{
		txnFor("est-1", models.TransactionTypeDelivery, 500, base),
	}

	got := models.WithTransactions(establishments, transactions)
	if len(got) != 2 {
		t.Fatalf("every establishment must appear exactly once, got %d", len(got))
	}
	if len(got[0].Transactions) != 1 || !got[0].Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("est-1 must carry its transaction and balance, got %+v", got[0])
	}
	if len(got[1].Transactions) != 0 || !got[1].Balance.Equal(decimal.Zero) {
		t.Fatal("an establishment with no transactions balances to zero")
	}
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := models.ComputeDashboardStats(nil, nil)
	if stats.TotalEstablishments != 0 {
		t.Fatal("empty input must count zero establishments")
	}
	if !stats.TotalDeliveries.Equal(decimal.Zero) || !stats.TotalPayments.Equal(decimal.Zero) || !stats.TotalOutstanding.Equal(decimal.Zero) {
		t.Fatal("empty input must total zero")
	}
	if len(stats.RecentTransactions) != 0 {
		t.Fatal("empty input must list no recent transactions")
	}
}

func TestComputeDashboardStatsTotals(t *testing.T) {
	base := nowForTest()
	establishments := []models.Establishment{{ID: "est-1"}, {ID: "est-2"}}
	transactions := []models.Transaction{
		txnFor("est-1", models.TransactionTypeDelivery, 500, base),
		txnFor("est-1", models.TransactionTypePayment, 200, base.Add(time.Hour)),
		txnFor("est-2", models.TransactionTypeDelivery, 100, base.Add(2*time.Hour)),
	}

	stats := models.ComputeDashboardStats(establishments, transactions)
	if stats.TotalEstablishments != 2 {
		t.Fatalf("expected 2 establishments, got %d", stats.TotalEstablishments)
	}
	if !stats.TotalDeliveries.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected deliveries 600, got %s", stats.TotalDeliveries)
	}
	if !stats.TotalPayments.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected payments 200, got %s", stats.TotalPayments)
	}
	if !stats.TotalOutstanding.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected outstanding 400, got %s", stats.TotalOutstanding)
	}
}

func TestRecentTransactionsTakesNewestFive(t *testing.T) {
	base := nowForTest()
	transactions := make([]models.Transaction, 0, 7)
	for i := 0; i < 7; i++ {
		transactions = append(transactions, txnFor("est-1", models.TransactionTypeDelivery, int64(i+1), base.Add(time.Duration(i)*time.Minute)))
	}

	stats := models.ComputeDashboardStats(nil, transactions)
	if len(stats.RecentTransactions) != 5 {
		t.Fatalf("recent list must cap at 5, got %d", len(stats.RecentTransactions))
	}
	for i, txn := range stats.RecentTransactions {
		want := decimal.NewFromInt(int64(7 - i))
		if !txn.Amount.Equal(want) {
			t.Fatalf("recent[%d] must be amount %s (newest first), got %s", i, want, txn.Amount)
		}
	}
}

func TestRecentTransactionsStableOnEqualCreatedAt(t *testing.T) {
	base := nowForTest()
	transactions := []models.Transaction{
		txnFor("est-1", models.TransactionTypeDelivery, 1, base),
		txnFor("est-2", models.TransactionTypeDelivery, 2, base),
		txnFor("est-3", models.TransactionTypeDelivery, 3, base),
	}
	transactions[0].ID = "a"
	transactions[1].ID = "b"
	transactions[2].ID = "c"

	first := models.ComputeDashboardStats(nil, transactions)
	second := models.ComputeDashboardStats(nil, transactions)
	for i := range first.RecentTransactions {
		if first.RecentTransactions[i].ID != second.RecentTransactions[i].ID {
			t.Fatal("equal createdAt values must keep input order on every call")
		}
	}
	if first.RecentTransactions[0].ID != "a" {
		t.Fatalf("stable sort must preserve input order for ties, got %s first", first.RecentTransactions[0].ID)
	}
}

func TestLowStockProducts(t *testing.T) {
	products := []models.Product{
		{ID: "1", Title: "Beef Biltong", Quantity: 120, LowStockLimit: 20},
		{ID: "2", Title: "Chilli Bites", Quantity: 12, LowStockLimit: 15},
		{ID: "3", Title: "Droewors", Quantity: 15, LowStockLimit: 15},
	}

	low := models.LowStockProducts(products)
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}
	if low[0].ID != "2" || low[1].ID != "3" {
		t.Fatalf("wrong products flagged: %+v", low)
	}
}
