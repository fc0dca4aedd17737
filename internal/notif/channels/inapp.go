package channels

import (
	"context"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/dbmysql"

	"github.com/pkg/errors"
)

// NotificationWriter is implemented by dbmysql.NotificationRepository.
type NotificationWriter interface {
	Create(ctx context.Context, notification *dbmysql.Notification) error
}

// InAppChannel persists the notification so it shows up in the user's inbox.
// Redelivery of the same message id is a no-op.
type InAppChannel struct {
	repo NotificationWriter
}

func NewInAppChannel(repo NotificationWriter) *InAppChannel {
	return &InAppChannel{repo: repo}
}

func (c *InAppChannel) Kind() common.ChannelKind {
	return common.ChannelInApp
}

func (c *InAppChannel) Send(ctx context.Context, msg common.NotificationMessage) error {
	if err := c.repo.Create(ctx, dbmysql.NotificationFromMessage(msg)); err != nil {
		return errors.Wrap(err, "failed to store in-app notification")
	}
	return nil
}
