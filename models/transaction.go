package models

import (
	"errors"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Transaction is a single delivery or payment event. Date is the
// business event instant; CreatedAt is when the record was captured.
// There is no UpdatedAt: the entity never carried one.
type Transaction struct {
	ID              string          `json:"id"`
	EstablishmentId string          `json:"establishmentId"`
	EmployeeId      string          `json:"employeeId"`
	ProductId       string          `json:"productId,omitempty"`
	Quantity        int             `json:"quantity,omitempty"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type NewTransaction struct {
	EstablishmentId string          `json:"establishmentId" validate:"required"`
	EmployeeId      string          `json:"employeeId" validate:"required"`
	ProductId       string          `json:"productId"`
	Quantity        int             `json:"quantity"`
	Type            TransactionType `json:"type" validate:"required,oneof=delivery payment"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date" validate:"required"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" validate:"required,oneof=paid credit"`
	Notes           string          `json:"notes"`
}

func (input *NewTransaction) Validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if input.Type == TransactionTypeDelivery {
		if input.ProductId == "" {
			return errors.New("productId is required for deliveries")
		}
		if input.Quantity < 1 {
			return errors.New("quantity must be at least 1 for deliveries")
		}
	}
	return nil
}

func errNegativePrice(field string) error {
	return errors.New(field + " must not be negative")
}

type TransactionPatch struct {
	EmployeeId    *string          `json:"employeeId,omitempty"`
	ProductId     *string          `json:"productId,omitempty"`
	Quantity      *int             `json:"quantity,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Date          *time.Time       `json:"date,omitempty"`
	PaymentStatus *PaymentStatus   `json:"paymentStatus,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

type TransactionRepository struct {
	col collection[Transaction]
}

func NewTransactionRepository(store localstore.BlobStore, logger *logrus.Logger) *TransactionRepository {
	return &TransactionRepository{col: newCollection[Transaction](TransactionsKey, store, logger)}
}

func (r *TransactionRepository) List() []Transaction {
	return r.col.load("List")
}

func (r *TransactionRepository) Get(id string) (Transaction, bool) {
	for _, txn := range r.col.load("Get") {
		if txn.ID == id {
			return txn, true
		}
	}
	return Transaction{}, false
}

func (r *TransactionRepository) ListByEstablishment(establishmentId string) []Transaction {
	transactions := r.col.load("ListByEstablishment")
	matched := make([]Transaction, 0)
	for _, txn := range transactions {
		if txn.EstablishmentId == establishmentId {
			matched = append(matched, txn)
		}
	}
	return matched
}

func (r *TransactionRepository) Create(input NewTransaction) Transaction {
	txn := Transaction{
		ID:              uuid.NewString(),
		EstablishmentId: input.EstablishmentId,
		EmployeeId:      input.EmployeeId,
		ProductId:       input.ProductId,
		Quantity:        input.Quantity,
		Type:            input.Type,
		Amount:          input.Amount,
		Date:            input.Date,
		PaymentStatus:   input.PaymentStatus,
		Notes:           input.Notes,
		CreatedAt:       nowUTC(),
	}

	transactions := r.col.load("Create")
	transactions = append(transactions, txn)
	r.col.persist("Create", transactions)

	return txn
}

// Update merges the patch over the stored record. CreatedAt and the
// immutable establishment/type fields are never touched.
func (r *TransactionRepository) Update(id string, patch TransactionPatch) (Transaction, bool) {
	transactions := r.col.load("Update")
	for i, txn := range transactions {
		if txn.ID != id {
			continue
		}
		if patch.EmployeeId != nil {
			txn.EmployeeId = *patch.EmployeeId
		}
		if patch.ProductId != nil {
			txn.ProductId = *patch.ProductId
		}
		if patch.Quantity != nil {
			txn.Quantity = *patch.Quantity
		}
		if patch.Amount != nil {
			txn.Amount = *patch.Amount
		}
		if patch.Date != nil {
			txn.Date = *patch.Date
		}
		if patch.PaymentStatus != nil {
			txn.PaymentStatus = *patch.PaymentStatus
		}
		if patch.Notes != nil {
			txn.Notes = *patch.Notes
		}
		transactions[i] = txn
		r.col.persist("Update", transactions)
		return txn, true
	}
	return Transaction{}, false
}

func (r *TransactionRepository) Delete(id string) bool {
	transactions := r.col.load("Delete")
	remaining := transactions[:0:0]
	for _, txn := range transactions {
		if txn.ID != id {
			remaining = append(remaining, txn)
		}
	}
	if len(remaining) == len(transactions) {
		return false
	}
	return r.col.persist("Delete", remaining)
}

func (r *TransactionRepository) Put(txn Transaction) bool {
	transactions := r.col.load("Put")
	for i := range transactions {
		if transactions[i].ID == txn.ID {
			transactions[i] = txn
			return r.col.persist("Put", transactions)
		}
	}
	transactions = append(transactions, txn)
	return r.col.persist("Put", transactions)
}

// deleteByEstablishment is the cascade half of an establishment delete.
// It rewrites the collection even when nothing referenced the
// establishment.
func (r *TransactionRepository) deleteByEstablishment(establishmentId string) {
	transactions := r.col.load("deleteByEstablishment")
	remaining := transactions[:0:0]
	for _, txn := range transactions {
		if txn.EstablishmentId != establishmentId {
			remaining = append(remaining, txn)
		}
	}
	r.col.persist("deleteByEstablishment", remaining)
}
