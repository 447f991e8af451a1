package remote

import (
	"bitbucket.org/karoofoods/biltong_tracker/models"
)

// All local<->column translation sits in this file so a renamed field
// fails loudly here instead of silently dropping at a call site.

func establishmentToRow(input models.NewEstablishment) establishmentRow {
	return establishmentRow{
		Name:         input.Name,
		Address:      input.Address,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		Notes:        input.Notes,
	}
}

func establishmentFromRow(row establishmentRow) models.Establishment {
	return models.Establishment{
		ID:           row.ID,
		Name:         row.Name,
		Address:      row.Address,
		ContactName:  row.ContactName,
		ContactPhone: row.ContactPhone,
		ContactEmail: row.ContactEmail,
		Notes:        row.Notes,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func establishmentPatchColumns(patch models.EstablishmentPatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Address != nil {
		columns["address"] = *patch.Address
	}
	if patch.ContactName != nil {
		columns["contactname"] = *patch.ContactName
	}
	if patch.ContactPhone != nil {
		columns["contactphone"] = *patch.ContactPhone
	}
	if patch.ContactEmail != nil {
		columns["contactemail"] = *patch.ContactEmail
	}
	if patch.Notes != nil {
		columns["notes"] = *patch.Notes
	}
	return columns
}

func employeeToRow(input models.NewEmployee) employeeRow {
	return employeeRow{
		EmployeeNumber: input.EmployeeNumber,
		Name:           input.Name,
		Email:          input.Email,
		Mobile:         input.Mobile,
		Phone:          input.Phone,
		Address:        input.Address,
		Notes:          input.Notes,
	}
}

func employeeFromRow(row employeeRow) models.Employee {
	return models.Employee{
		ID:             row.ID,
		EmployeeNumber: row.EmployeeNumber,
		Name:           row.Name,
		Email:          row.Email,
		Mobile:         row.Mobile,
		Phone:          row.Phone,
		Address:        row.Address,
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func employeePatchColumns(patch models.EmployeePatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.EmployeeNumber != nil {
		columns["employeenumber"] = *patch.EmployeeNumber
	}
	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Email != nil {
		columns["email"] = *patch.Email
	}
	if patch.Mobile != nil {
		columns["mobile"] = *patch.Mobile
	}
	if patch.Phone != nil {
		columns["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		columns["address"] = *patch.Address
	}
	if patch.Notes != nil {
		columns["notes"] = *patch.Notes
	}
	return columns
}

func productToRow(input models.NewProduct, productId string) productRow {
	return productRow{
		ProductId:        productId,
		Title:            input.Title,
		Description:      input.Description,
		Category:         input.Category,
		Quantity:         input.Quantity,
		LowStockLimit:    input.LowStockLimit,
		SellingUnitPrice: input.SellingUnitPrice,
		BuyingUnitPrice:  input.BuyingUnitPrice,
	}
}

func productFromRow(row productRow) models.Product {
	return models.Product{
		ID:               row.ID,
		ProductId:        row.ProductId,
		Title:            row.Title,
		Description:      row.Description,
		Category:         row.Category,
		Quantity:         row.Quantity,
		LowStockLimit:    row.LowStockLimit,
		SellingUnitPrice: row.SellingUnitPrice,
		BuyingUnitPrice:  row.BuyingUnitPrice,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func productPatchColumns(patch models.ProductPatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Quantity != nil {
		columns["quantity"] = *patch.Quantity
	}
	if patch.LowStockLimit != nil {
		columns["lowstocklimit"] = *patch.LowStockLimit
	}
	if patch.SellingUnitPrice != nil {
		columns["sellingunitprice"] = *patch.SellingUnitPrice
	}
	if patch.BuyingUnitPrice != nil {
		columns["buyingunitprice"] = *patch.BuyingUnitPrice
	}
	return columns
}

func transactionToRow(input models.NewTransaction) transactionRow {
	row := transactionRow{
		EstablishmentId: input.EstablishmentId,
		EmployeeId:      input.EmployeeId,
		Type:            string(input.Type),
		Amount:          input.Amount,
		Date:            input.Date,
		PaymentStatus:   string(input.PaymentStatus),
		Notes:           input.Notes,
	}
	// Payments carry no product reference; NULL keeps the remote rows
	// readable for other consumers.
	if input.ProductId != "" {
		productId := input.ProductId
		row.ProductId = &productId
	}
	if input.Quantity != 0 {
		quantity := input.Quantity
		row.Quantity = &quantity
	}
	return row
}

func transactionFromRow(row transactionRow) models.Transaction {
	txn := models.Transaction{
		ID:              row.ID,
		EstablishmentId: row.EstablishmentId,
		EmployeeId:      row.EmployeeId,
		Type:            models.TransactionType(row.Type),
		Amount:          row.Amount,
		Date:            row.Date,
		PaymentStatus:   models.PaymentStatus(row.PaymentStatus),
		Notes:           row.Notes,
		CreatedAt:       row.CreatedAt,
	}
	if row.ProductId != nil {
		txn.ProductId = *row.ProductId
	}
	if row.Quantity != nil {
		txn.Quantity = *row.Quantity
	}
	return txn
}

func transactionPatchColumns(patch models.TransactionPatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.EmployeeId != nil {
		columns["employeeid"] = *patch.EmployeeId
	}
	if patch.ProductId != nil {
		columns["productid"] = *patch.ProductId
	}
	if patch.Quantity != nil {
		columns["quantity"] = *patch.Quantity
	}
	if patch.Amount != nil {
		columns["amount"] = *patch.Amount
	}
	if patch.Date != nil {
		columns["date"] = *patch.Date
	}
	if patch.PaymentStatus != nil {
		columns["paymentstatus"] = string(*patch.PaymentStatus)
	}
	if patch.Notes != nil {
		columns["notes"] = *patch.Notes
	}
	return columns
}
