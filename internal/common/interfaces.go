package common

import (
	"context"
)

type Observer interface {
	Update(event NotificationEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Publish(event NotificationEvent)
	PublishAsync(event NotificationEvent)
}

// Channel delivers a notification through one transport. A returned error is
// recorded as a failure for that channel only.
type Channel interface {
	Kind() ChannelKind
	Send(ctx context.Context, msg NotificationMessage) error
}

// DispatchPublisher hands a dispatch request to the queue.
type DispatchPublisher interface {
	Publish(ctx context.Context, req DispatchNotificationMessage) error
}

// ActivityRecorder is the write side of the activity log used by other packages.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, activityType string, payload JSONMap, opts ...RecordOption) error
}

type EmailService interface {
	SendEmail(ctx context.Context, data EmailData) error
}

type EmailData struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	IsHTML  bool     `json:"is_html"`
}
