package models

type TransactionType string

const (
	TransactionTypeDelivery TransactionType = "delivery"
	TransactionTypePayment  TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDelivery, TransactionTypePayment:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusCredit PaymentStatus = "credit"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusCredit:
		return true
	}
	return false
}
