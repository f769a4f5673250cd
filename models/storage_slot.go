// models/storage_slot.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StorageSlot holds one JSON-serialized collection of the ledger.
type StorageSlot struct {
	Key       string         `gorm:"column:slot_key;primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (StorageSlot) TableName() string {
	return "storage_slots"
}

func (s *StorageSlot) BeforeSave(tx *gorm.DB) (err error) {
	s.UpdatedAt = time.Now().UTC()
	return
}
