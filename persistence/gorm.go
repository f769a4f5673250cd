package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"carwash-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGateway keeps slots as rows of the storage_slots table.
type GormGateway struct {
	db *gorm.DB
}

func NewGormGateway(db *gorm.DB) (*GormGateway, error) {
	if err := db.AutoMigrate(&models.StorageSlot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage slots: %w", err)
	}
	return &GormGateway{db: db}, nil
}

func (g *GormGateway) Load(ctx context.Context, key string, dest any) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidSlot
	}

	var slot models.StorageSlot
	if err := g.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load slot %s: %w", key, err)
	}

	if err := json.Unmarshal(slot.Value, dest); err != nil {
		return true, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return true, nil
}

func (g *GormGateway) Save(ctx context.Context, key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidSlot
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}

	slot := models.StorageSlot{Key: key, Value: raw}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

func (g *GormGateway) Clear(ctx context.Context) error {
	return g.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.StorageSlot{}).Error
}
