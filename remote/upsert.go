package remote

import (
	"context"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"gorm.io/gorm/clause"
)

// Upsert* push a full local record, id included, into the remote store.
// This is the outbox replay path: the record was captured locally while
// the remote was unreachable, so the local id and timestamps win and a
// repeated replay of the same entry is harmless.

func (s *Store) UpsertEstablishment(ctx context.Context, est models.Establishment) error {
	row := establishmentRowFromRecord(est)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		config.LogError(s.logger, moduleName, "UpsertEstablishment", "upsert establishments", est.ID, err)
	}
	return err
}

func (s *Store) UpsertEmployee(ctx context.Context, emp models.Employee) error {
	row := employeeRowFromRecord(emp)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		config.LogError(s.logger, moduleName, "UpsertEmployee", "upsert employees", emp.ID, err)
	}
	return err
}

func (s *Store) UpsertProduct(ctx context.Context, p models.Product) error {
	row := productRowFromRecord(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		config.LogError(s.logger, moduleName, "UpsertProduct", "upsert products", p.ID, err)
	}
	return err
}

func (s *Store) UpsertTransaction(ctx context.Context, txn models.Transaction) error {
	row := transactionRowFromRecord(txn)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		config.LogError(s.logger, moduleName, "UpsertTransaction", "upsert transactions", txn.ID, err)
	}
	return err
}

func establishmentRowFromRecord(est models.Establishment) establishmentRow {
	return establishmentRow{
		ID:           est.ID,
		Name:         est.Name,
		Address:      est.Address,
		ContactName:  est.ContactName,
		ContactPhone: est.ContactPhone,
		ContactEmail: est.ContactEmail,
		Notes:        est.Notes,
		CreatedAt:    est.CreatedAt,
		UpdatedAt:    est.UpdatedAt,
	}
}

func employeeRowFromRecord(emp models.Employee) employeeRow {
	return employeeRow{
		ID:             emp.ID,
		EmployeeNumber: emp.EmployeeNumber,
		Name:           emp.Name,
		Email:          emp.Email,
		Mobile:         emp.Mobile,
		Phone:          emp.Phone,
		Address:        emp.Address,
		Notes:          emp.Notes,
		CreatedAt:      emp.CreatedAt,
		UpdatedAt:      emp.UpdatedAt,
	}
}

func productRowFromRecord(p models.Product) productRow {
	return productRow{
		ID:               p.ID,
		ProductId:        p.ProductId,
		Title:            p.Title,
		Description:      p.Description,
		Category:         p.Category,
		Quantity:         p.Quantity,
		LowStockLimit:    p.LowStockLimit,
		SellingUnitPrice: p.SellingUnitPrice,
		BuyingUnitPrice:  p.BuyingUnitPrice,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func transactionRowFromRecord(txn models.Transaction) transactionRow {
	row := transactionRow{
		ID:              txn.ID,
		EstablishmentId: txn.EstablishmentId,
		EmployeeId:      txn.EmployeeId,
		Type:            string(txn.Type),
		Amount:          txn.Amount,
		Date:            txn.Date,
		PaymentStatus:   string(txn.PaymentStatus),
		Notes:           txn.Notes,
		CreatedAt:       txn.CreatedAt,
	}
	if txn.ProductId != "" {
		productId := txn.ProductId
		row.ProductId = &productId
	}
	if txn.Quantity != 0 {
		quantity := txn.Quantity
		row.Quantity = &quantity
	}
	return row
}
