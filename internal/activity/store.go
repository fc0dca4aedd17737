// Package activity records and lists user activity history.
package activity

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=activity

import (
	"context"

	"GoLoyalty/internal/common"
)

// Store is the persistence port for the activity log. Implemented by
// dbmysql.ActivityRepository and dbmongo.ActivityStore.
type Store interface {
	Add(ctx context.Context, activity common.UserActivity) error
	AddBatch(ctx context.Context, activities []common.UserActivity) error
	FindByUserPaginated(ctx context.Context, userID string, page, limit int, filter common.ActivityFilter) ([]common.UserActivity, error)
	CountByUser(ctx context.Context, userID string, filter common.ActivityFilter) (int64, error)
}
