// Package remote is the client for the remote authoritative store: four
// MySQL tables addressed through insert / update / select-by-id. Column
// names are the lowercased, unseparated variants of the local field
// names; the mapping lives entirely in this package.
package remote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type establishmentRow struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	Name         string    `gorm:"column:name;size:191;not null"`
	Address      string    `gorm:"column:address;type:text"`
	ContactName  string    `gorm:"column:contactname;size:191"`
	ContactPhone string    `gorm:"column:contactphone;size:40"`
	ContactEmail string    `gorm:"column:contactemail;size:191"`
	Notes        string    `gorm:"column:notes;type:text"`
	CreatedAt    time.Time `gorm:"column:createdat"`
	UpdatedAt    time.Time `gorm:"column:updatedat"`
}

func (establishmentRow) TableName() string { return "establishments" }

type employeeRow struct {
	ID             string    `gorm:"column:id;primaryKey;size:36"`
	EmployeeNumber string    `gorm:"column:employeenumber;size:20;not null"`
	Name           string    `gorm:"column:name;size:191;not null"`
	Email          string    `gorm:"column:email;size:191"`
	Mobile         string    `gorm:"column:mobile;size:40"`
	Phone          string    `gorm:"column:phone;size:40"`
	Address        string    `gorm:"column:address;type:text"`
	Notes          string    `gorm:"column:notes;type:text"`
	CreatedAt      time.Time `gorm:"column:createdat"`
	UpdatedAt      time.Time `gorm:"column:updatedat"`
}

func (employeeRow) TableName() string { return "employees" }

type productRow struct {
	ID               string          `gorm:"column:id;primaryKey;size:36"`
	ProductId        string          `gorm:"column:productid;size:20;not null"`
	Title            string          `gorm:"column:title;size:191;not null"`
	Description      string          `gorm:"column:description;type:text"`
	Category         string          `gorm:"column:category;size:100"`
	Quantity         int             `gorm:"column:quantity;not null"`
	LowStockLimit    int             `gorm:"column:lowstocklimit;not null"`
	SellingUnitPrice decimal.Decimal `gorm:"column:sellingunitprice;type:decimal(20,4)"`
	BuyingUnitPrice  decimal.Decimal `gorm:"column:buyingunitprice;type:decimal(20,4)"`
	CreatedAt        time.Time       `gorm:"column:createdat"`
	UpdatedAt        time.Time       `gorm:"column:updatedat"`
}

func (productRow) TableName() string { return "products" }

type transactionRow struct {
	ID              string          `gorm:"column:id;primaryKey;size:36"`
	EstablishmentId string          `gorm:"column:establishmentid;size:36;index;not null"`
	EmployeeId      string          `gorm:"column:employeeid;size:36;not null"`
	ProductId       *string         `gorm:"column:productid;size:36"`
	Quantity        *int            `gorm:"column:quantity"`
	Type            string          `gorm:"column:type;type:enum('delivery','payment');not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,4);not null"`
	Date            time.Time       `gorm:"column:date;not null"`
	PaymentStatus   string          `gorm:"column:paymentstatus;type:enum('paid','credit');not null"`
	Notes           string          `gorm:"column:notes;type:text"`
	CreatedAt       time.Time       `gorm:"column:createdat"`
}

func (transactionRow) TableName() string { return "transactions" }

// Row ids are store-generated: callers never supply one. The hook is the
// MySQL stand-in for the managed backend's generated uuid column.

func (row *establishmentRow) BeforeCreate(tx *gorm.DB) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return nil
}

func (row *employeeRow) BeforeCreate(tx *gorm.DB) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return nil
}

func (row *productRow) BeforeCreate(tx *gorm.DB) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return nil
}

func (row *transactionRow) BeforeCreate(tx *gorm.DB) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return nil
}
