package model

import "time"

// StoredRecord is a single named blob of JSON text. The address book lives
// in one row named by the repository, mirroring a browser localStorage key.
type StoredRecord struct {
	Name      string `gorm:"primaryKey;size:64;not null"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
