package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Aggregation over in-memory snapshots. Everything here is pure: no
// store access, no mutation of the inputs.

// EstablishmentWithTransactions is derived, never stored.
type EstablishmentWithTransactions struct {
	Establishment
	Transactions []Transaction   `json:"transactions"`
	Balance      decimal.Decimal `json:"balance"`
}

// BalanceFor folds the establishment's transactions: deliveries add to
// what the establishment owes, payments subtract. Fold order does not
// matter; an establishment with no transactions balances to zero.
func BalanceFor(establishmentId string, transactions []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range transactions {
		if txn.EstablishmentId != establishmentId {
			continue
		}
		if txn.Type == TransactionTypeDelivery {
			balance = balance.Add(txn.Amount)
		} else {
			balance = balance.Sub(txn.Amount)
		}
	}
	return balance
}

// WithTransactions attaches each establishment's transactions and
// balance. Every establishment appears exactly once, including ones
// with no transactions.
func WithTransactions(establishments []Establishment, transactions []Transaction) []EstablishmentWithTransactions {
	result := make([]EstablishmentWithTransactions, 0, len(establishments))
	for _, est := range establishments {
		matched := make([]Transaction, 0)
		for _, txn := range transactions {
			if txn.EstablishmentId == est.ID {
				matched = append(matched, txn)
			}
		}
		result = append(result, EstablishmentWithTransactions{
			Establishment: est,
			Transactions:  matched,
			Balance:       BalanceFor(est.ID, matched),
		})
	}
	return result
}

const recentTransactionLimit = 5

type DashboardStats struct {
	TotalEstablishments int             `json:"totalEstablishments"`
	TotalDeliveries     decimal.Decimal `json:"totalDeliveries"`
	TotalPayments       decimal.Decimal `json:"totalPayments"`
	TotalOutstanding    decimal.Decimal `json:"totalOutstanding"`
	RecentTransactions  []Transaction   `json:"recentTransactions"`
}

// ComputeDashboardStats sums deliveries and payments globally and picks
// the five most recently captured transactions. The sort is stable so
// equal CreatedAt values keep their input order on every call.
func ComputeDashboardStats(establishments []Establishment, transactions []Transaction) DashboardStats {
	totalDeliveries := decimal.Zero
	totalPayments := decimal.Zero
	for _, txn := range transactions {
		if txn.Type == TransactionTypeDelivery {
			totalDeliveries = totalDeliveries.Add(txn.Amount)
		} else {
			totalPayments = totalPayments.Add(txn.Amount)
		}
	}

	recent := make([]Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}

	return DashboardStats{
		TotalEstablishments: len(establishments),
		TotalDeliveries:     totalDeliveries,
		TotalPayments:       totalPayments,
		TotalOutstanding:    totalDeliveries.Sub(totalPayments),
		RecentTransactions:  recent,
	}
}

// LowStockProducts filters products at or below their low stock limit.
func LowStockProducts(products []Product) []Product {
	low := make([]Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}
