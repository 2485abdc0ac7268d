package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-checkout/internal/model"
)

// recordName is the single named record holding every saved address, the
// same key the storefront used in browser localStorage.
const recordName = "woocommerce_saved_addresses"

// AddressRepository persists the address book as one JSON record.
type AddressRepository interface {
	// Load never fails on bad data: a missing or corrupt record yields an
	// empty book, because a parse failure must not block checkout.
	Load(ctx context.Context) (*model.AddressBook, error)
	Save(ctx context.Context, book *model.AddressBook) error
}

type addressRepoImpl struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAddressRepository(db *gorm.DB, log *zap.Logger) AddressRepository {
	return &addressRepoImpl{
		db:  db,
		log: log,
	}
}

func (r *addressRepoImpl) Load(ctx context.Context) (*model.AddressBook, error) {
	var record model.StoredRecord
	err := r.db.WithContext(ctx).
		Where("name = ?", recordName).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.AddressBook{}, nil
		}
		return nil, fmt.Errorf("load address record: %w", err)
	}

	var book model.AddressBook
	if err := json.Unmarshal([]byte(record.Data), &book); err != nil {
		r.log.Warn("corrupt saved-address record, starting empty",
			zap.Error(err))
		return &model.AddressBook{}, nil
	}

	return &book, nil
}

func (r *addressRepoImpl) Save(ctx context.Context, book *model.AddressBook) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal address book: %w", err)
	}

	// Single-row upsert, so a concurrent Load sees either the old or the
	// new book, never a partial write.
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&model.StoredRecord{
		Name: recordName,
		Data: string(data),
	}).Error

	if err != nil {
		return fmt.Errorf("save address record: %w", err)
	}
	return nil
}
