package notif

import (
	"context"
	"time"

	"GoLoyalty/internal/dbmysql"
)

// NotificationRepository is implemented by dbmysql.NotificationRepository.
type NotificationRepository interface {
	ByUserID(ctx context.Context, userID string, limit, offset int) ([]dbmysql.Notification, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
}

type DeviceRegistry interface {
	Register(ctx context.Context, userID, token, platform string) error
}

// UnreadCounter caches per-user unread counts. Increment and Decrement are
// idempotent per notification id.
type UnreadCounter interface {
	Increment(ctx context.Context, userID, notificationID string) error
	Decrement(ctx context.Context, userID, notificationID string) error
	Get(ctx context.Context, userID string) (int64, bool, error)
	Set(ctx context.Context, userID string, count int64) error
}
