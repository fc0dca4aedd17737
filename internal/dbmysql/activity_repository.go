package dbmysql

import (
	"context"
	"fmt"

	"GoLoyalty/internal/common"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Add(ctx context.Context, activity common.UserActivity) error {
	if err := r.db.WithContext(ctx).Create(activityRow(activity)).Error; err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

// AddBatch persists every activity in one transaction; nothing is written on failure.
func (r *ActivityRepository) AddBatch(ctx context.Context, activities []common.UserActivity) error {
	if len(activities) == 0 {
		return nil
	}

	rows := make([]*UserActivity, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, activityRow(a))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save activity batch: %w", err)
		}
		return nil
	})
}

// FindByUserPaginated returns one 1-indexed page of activities, newest first.
func (r *ActivityRepository) FindByUserPaginated(ctx context.Context, userID string, page, limit int, filter common.ActivityFilter) ([]common.UserActivity, error) {
	var rows []UserActivity

	query := r.filtered(ctx, userID, filter).Order("occurred_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset := common.Offset(page, limit); offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get user activities: %w", err)
	}

	out := make([]common.UserActivity, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *ActivityRepository) CountByUser(ctx context.Context, userID string, filter common.ActivityFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, userID, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count user activities: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) filtered(ctx context.Context, userID string, filter common.ActivityFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&UserActivity{}).Where("user_id = ?", userID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	return query
}
