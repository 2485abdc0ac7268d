package client

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront-checkout/internal/model"
)

// InitSqliteClient opens the local store and migrates the record table.
// The address book is session-local data, so sqlite on disk is the whole
// persistence story.
func InitSqliteClient(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&model.StoredRecord{}); err != nil {
		return nil, fmt.Errorf("migrate stored records: %w", err)
	}

	return db, nil
}
