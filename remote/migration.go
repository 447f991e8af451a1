package remote

import (
	"log"

	"gorm.io/gorm"
)

// MigrateTable creates or updates the four remote tables. Only the sync
// daemon and the seed tool call this; the client core assumes the
// schema already exists.
func MigrateTable(db *gorm.DB) {
	err := db.AutoMigrate(
		&establishmentRow{},
		&employeeRow{},
		&productRow{},
		&transactionRow{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
