package models

import (
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/sirupsen/logrus"
)

// Blob store keys, one per collection. The values are JSON arrays in the
// local field naming (camelCase).
const (
	EstablishmentsKey = "biltong-tracker-establishments"
	TransactionsKey   = "biltong-tracker-transactions"
	EmployeesKey      = "biltong-tracker-employees"
	ProductsKey       = "biltong-tracker-products"
)

const moduleName = "models"

// collection wraps one blob store key. Every mutation is a
// read-collection / modify / write-collection cycle; faults degrade to
// defaults after logging (readers see an empty collection, writers drop
// the write). Callers that must distinguish fault from empty go through
// the BlobStore directly.
type collection[T any] struct {
	key    string
	store  localstore.BlobStore
	logger *logrus.Logger
}

func newCollection[T any](key string, store localstore.BlobStore, logger *logrus.Logger) collection[T] {
	if logger == nil {
		logger = config.GetLogger()
	}
	return collection[T]{key: key, store: store, logger: logger}
}

func (c *collection[T]) load(funcName string) []T {
	data, exists, err := c.store.Get(c.key)
	if err != nil {
		config.LogError(c.logger, moduleName, funcName, "read "+c.key, nil, err)
		return []T{}
	}
	if !exists {
		return []T{}
	}
	var records []T
	if err := utils.UnmarshalFromJSON(data, &records); err != nil {
		config.LogError(c.logger, moduleName, funcName, "decode "+c.key, nil, err)
		return []T{}
	}
	return records
}

// persist rewrites the whole collection. Returns false on a dropped
// write so repositories can report it, although the repository contract
// itself degrades silently.
func (c *collection[T]) persist(funcName string, records []T) bool {
	data, err := utils.MarshalToJSON(records)
	if err != nil {
		config.LogError(c.logger, moduleName, funcName, "encode "+c.key, nil, err)
		return false
	}
	if err := c.store.Set(c.key, data); err != nil {
		config.LogError(c.logger, moduleName, funcName, "write "+c.key, nil, err)
		return false
	}
	return true
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// Repositories bundles the four entity repositories over one blob store,
// wired so establishment deletes can cascade into transactions.
type Repositories struct {
	Establishments *EstablishmentRepository
	Employees      *EmployeeRepository
	Products       *ProductRepository
	Transactions   *TransactionRepository
}

func NewRepositories(store localstore.BlobStore, logger *logrus.Logger) *Repositories {
	transactions := NewTransactionRepository(store, logger)
	return &Repositories{
		Establishments: NewEstablishmentRepository(store, logger, transactions),
		Employees:      NewEmployeeRepository(store, logger),
		Products:       NewProductRepository(store, logger),
		Transactions:   transactions,
	}
}
