package dbmysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GoLoyalty/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create inserts the row, ignoring a duplicate id so redelivered messages are harmless.
func (r *NotificationRepository) Create(ctx context.Context, notification *Notification) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(notification).Error
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ByID(ctx context.Context, id string) (*Notification, error) {
	var notification Notification

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("notification", id)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

func (r *NotificationRepository) ByUserID(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	var notifications []Notification

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead flips one unread notification to read. It reports whether the row
// changed; an already-read notification is not an error.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID string) (bool, error) {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"status":     string(common.StatusRead),
			"read_at":    now,
			"updated_at": now,
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up notification: %w", err)
	}
	if count == 0 {
		return false, common.NewNotFoundError("notification", id)
	}

	return false, nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"status":     string(common.StatusRead),
			"read_at":    now,
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// MarkSent stamps sent_at once; later calls leave the first timestamp in place.
// A row the user already read keeps its read status.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND sent_at IS NULL", id).
		Updates(map[string]interface{}{
			"sent_at":    sentAt,
			"status":     gorm.Expr("CASE WHEN is_read THEN status ELSE ? END", string(common.StatusSent)),
			"updated_at": sentAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as sent: %w", result.Error)
	}

	return nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}
