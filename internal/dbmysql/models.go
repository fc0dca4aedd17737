package dbmysql

import (
	"time"

	"GoLoyalty/internal/common"
)

// Notification is a persisted in-app notification row.
type Notification struct {
	ID          string         `gorm:"primaryKey;size:36"`
	UserID      string         `gorm:"not null;index:idx_notifications_user_read,priority:1;size:64"`
	Type        string         `gorm:"not null;size:50"`
	Title       string         `gorm:"not null;size:255"`
	Message     string         `gorm:"not null;type:text"`
	Data        common.JSONMap `gorm:"type:json"`
	ActionURL   *string        `gorm:"size:512"`
	ActionLabel *string        `gorm:"size:100"`
	Priority    int            `gorm:"default:3"`
	Status      string         `gorm:"default:'pending';size:20"`
	IsRead      bool           `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt      *time.Time
	SentAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// ToResponse maps the row onto the public JSON shape.
func (n *Notification) ToResponse() common.NotificationResponse {
	return common.NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		SentAt:      n.SentAt,
		ActionURL:   n.ActionURL,
		ActionLabel: n.ActionLabel,
		Priority:    n.Priority,
		CreatedAt:   n.CreatedAt,
	}
}

// NotificationFromMessage builds the in-app row for a dispatched message.
func NotificationFromMessage(msg common.NotificationMessage) *Notification {
	return &Notification{
		ID:          msg.ID,
		UserID:      msg.RecipientID,
		Type:        string(msg.Type),
		Title:       msg.Title,
		Message:     msg.Body,
		Data:        msg.Data.Clone(),
		ActionURL:   msg.ActionURL,
		ActionLabel: msg.ActionLabel,
		Priority:    msg.Priority,
		Status:      string(common.StatusPending),
		CreatedAt:   msg.CreatedAt,
	}
}

type Device struct {
	DeviceToken  string    `gorm:"primaryKey;size:255"`
	UserID       string    `gorm:"not null;index;size:64"`
	Platform     string    `gorm:"not null;size:10"`
	Active       bool      `gorm:"not null;default:true"`
	RegisteredAt time.Time `gorm:"autoCreateTime"`
	LastActive   time.Time `gorm:"autoCreateTime"`
}

func (Device) TableName() string {
	return "devices"
}

// UserActivity is the append-only activity log row.
type UserActivity struct {
	ID         string         `gorm:"primaryKey;size:36"`
	UserID     string         `gorm:"not null;index:idx_user_activities_user_time,priority:1;size:64"`
	Type       string         `gorm:"not null;index;size:100"`
	Payload    common.JSONMap `gorm:"type:json"`
	ActorID    *string        `gorm:"size:64"`
	ActorType  *string        `gorm:"size:50"`
	OccurredAt time.Time      `gorm:"not null;index:idx_user_activities_user_time,priority:2"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

func activityRow(a common.UserActivity) *UserActivity {
	return &UserActivity{
		ID:         a.ID,
		UserID:     a.UserID,
		Type:       a.Type,
		Payload:    a.Payload,
		ActorID:    a.ActorID,
		ActorType:  a.ActorType,
		OccurredAt: a.OccurredAt,
	}
}

func (r *UserActivity) toDomain() common.UserActivity {
	payload := r.Payload
	if payload == nil {
		payload = common.JSONMap{}
	}
	return common.UserActivity{
		ID:         r.ID,
		UserID:     r.UserID,
		Type:       r.Type,
		Payload:    payload,
		ActorID:    r.ActorID,
		ActorType:  r.ActorType,
		OccurredAt: r.OccurredAt,
	}
}
