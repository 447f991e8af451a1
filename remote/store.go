package remote

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const moduleName = "remote"

// Store issues single-row inserts, updates-by-id and selects-by-id
// against the remote tables. Every method returns the row echoed back in
// the local shape; the store's generated id and server timestamps are
// authoritative for mirroring.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewStore(db *gorm.DB, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) CreateEstablishment(ctx context.Context, input models.NewEstablishment) (*models.Establishment, error) {
	row := establishmentToRow(input)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		config.LogError(s.logger, moduleName, "CreateEstablishment", "insert establishments", input.Name, err)
		return nil, err
	}
	est := establishmentFromRow(row)
	return &est, nil
}

func (s *Store) UpdateEstablishment(ctx context.Context, id string, patch models.EstablishmentPatch) (*models.Establishment, error) {
	columns := establishmentPatchColumns(patch)
	return updateRow(ctx, s, id, columns, establishmentFromRow, "UpdateEstablishment")
}

func (s *Store) GetEstablishment(ctx context.Context, id string) (*models.Establishment, error) {
	return getRow(ctx, s, id, establishmentFromRow, "GetEstablishment")
}

func (s *Store) CreateEmployee(ctx context.Context, input models.NewEmployee) (*models.Employee, error) {
	row := employeeToRow(input)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		config.LogError(s.logger, moduleName, "CreateEmployee", "insert employees", input.Name, err)
		return nil, err
	}
	emp := employeeFromRow(row)
	return &emp, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error) {
	columns := employeePatchColumns(patch)
	return updateRow(ctx, s, id, columns, employeeFromRow, "UpdateEmployee")
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return getRow(ctx, s, id, employeeFromRow, "GetEmployee")
}

func (s *Store) CreateProduct(ctx context.Context, input models.NewProduct, productId string) (*models.Product, error) {
	row := productToRow(input, productId)
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		config.LogError(s.logger, moduleName, "CreateProduct", "insert products", input.Title, err)
		return nil, err
	}
	p := productFromRow(row)
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	columns := productPatchColumns(patch)
	return updateRow(ctx, s, id, columns, productFromRow, "UpdateProduct")
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return getRow(ctx, s, id, productFromRow, "GetProduct")
}

func (s *Store) CreateTransaction(ctx context.Context, input models.NewTransaction) (*models.Transaction, error) {
	row := transactionToRow(input)
	row.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		config.LogError(s.logger, moduleName, "CreateTransaction", "insert transactions", input.EstablishmentId, err)
		return nil, err
	}
	txn := transactionFromRow(row)
	return &txn, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	columns := transactionPatchColumns(patch)
	return updateTransactionRow(ctx, s, id, columns)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var row transactionRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		config.LogError(s.logger, moduleName, "GetTransaction", "select transactions", id, err)
		return nil, err
	}
	txn := transactionFromRow(row)
	return &txn, nil
}

// updateRow covers the three timestamped entities; the row type is
// inferred from the fromRow converter.
func updateRow[R any, T any](ctx context.Context, s *Store, id string, columns map[string]interface{}, fromRow func(R) T, funcName string) (*T, error) {
	var row R
	if len(columns) == 0 {
		// Nothing to change; echo the current row so callers still get
		// the authoritative shape back.
		if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
			return nil, wrapFetchErr(s, funcName, id, err)
		}
		result := fromRow(row)
		return &result, nil
	}
	columns["updatedat"] = time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&row).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		config.LogError(s.logger, moduleName, funcName, "update", id, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, wrapFetchErr(s, funcName, id, err)
	}
	result := fromRow(row)
	return &result, nil
}

// Transactions have no updatedat column, so they skip the stamp.
func updateTransactionRow(ctx context.Context, s *Store, id string, columns map[string]interface{}) (*models.Transaction, error) {
	var row transactionRow
	if len(columns) > 0 {
		res := s.db.WithContext(ctx).Model(&row).Where("id = ?", id).Updates(columns)
		if res.Error != nil {
			config.LogError(s.logger, moduleName, "UpdateTransaction", "update", id, res.Error)
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, utils.ErrorRecordNotFound
		}
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, wrapFetchErr(s, "UpdateTransaction", id, err)
	}
	txn := transactionFromRow(row)
	return &txn, nil
}

func getRow[R any, T any](ctx context.Context, s *Store, id string, fromRow func(R) T, funcName string) (*T, error) {
	var row R
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, wrapFetchErr(s, funcName, id, err)
	}
	result := fromRow(row)
	return &result, nil
}

func wrapFetchErr(s *Store, funcName string, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorRecordNotFound
	}
	config.LogError(s.logger, moduleName, funcName, "select", id, err)
	return err
}
