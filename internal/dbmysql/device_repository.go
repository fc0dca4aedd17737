package dbmysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Register upserts a push token for the user and reactivates it if it was retired.
func (r *DeviceRepository) Register(ctx context.Context, userID, token, platform string) error {
	now := time.Now().UTC()
	device := &Device{
		DeviceToken:  token,
		UserID:       userID,
		Platform:     platform,
		Active:       true,
		RegisteredAt: now,
		LastActive:   now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "active", "last_active"}),
		}).
		Create(device).Error
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (r *DeviceRepository) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string

	err := r.db.WithContext(ctx).
		Model(&Device{}).
		Where("user_id = ? AND active = ?", userID, true).
		Order("last_active DESC").
		Pluck("device_token", &tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user devices: %w", err)
	}
	return tokens, nil
}

// Deactivate retires tokens the push provider reported as unregistered.
func (r *DeviceRepository) Deactivate(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&Device{}).
		Where("device_token IN ?", tokens).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate devices: %w", err)
	}
	return nil
}
