package channels

import (
	"context"
	"time"

	"GoLoyalty/internal/common"

	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const pushTimeout = 10 * time.Second

// MulticastSender is the part of *messaging.Client the push channel uses.
type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// DeviceStore is implemented by dbmysql.DeviceRepository.
type DeviceStore interface {
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
	Deactivate(ctx context.Context, tokens []string) error
}

// PushChannel delivers through Firebase Cloud Messaging to every active device
// of the recipient. It succeeds when at least one device accepted the message.
type PushChannel struct {
	fcm     MulticastSender
	devices DeviceStore
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewPushChannel(fcm MulticastSender, devices DeviceStore, log logrus.FieldLogger) *PushChannel {
	return &PushChannel{
		fcm:     fcm,
		devices: devices,
		timeout: pushTimeout,
		log:     log.WithField("channel", common.ChannelPush),
	}
}

func (c *PushChannel) Kind() common.ChannelKind {
	return common.ChannelPush
}

func (c *PushChannel) Send(ctx context.Context, msg common.NotificationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tokens, err := c.devices.ActiveTokens(ctx, msg.RecipientID)
	if err != nil {
		return errors.Wrap(err, "failed to get devices")
	}
	if len(tokens) == 0 {
		return errors.New("recipient has no active devices")
	}

	resp, err := c.fcm.SendEachForMulticast(ctx, buildMulticast(msg, tokens))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.New("timeout")
		}
		return errors.Wrap(err, "failed to send FCM")
	}

	c.pruneTokens(ctx, tokens, resp)

	c.log.WithFields(logrus.Fields{
		"notification_id": msg.ID,
		"success":         resp.SuccessCount,
		"failure":         resp.FailureCount,
	}).Debug("push sent")

	if resp.SuccessCount == 0 {
		return errors.Errorf("push rejected by all %d devices", len(tokens))
	}
	return nil
}

// pruneTokens deactivates tokens FCM reports as unregistered or malformed.
func (c *PushChannel) pruneTokens(ctx context.Context, tokens []string, resp *messaging.BatchResponse) {
	var stale []string
	for i, r := range resp.Responses {
		if r == nil || r.Success || i >= len(tokens) {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			stale = append(stale, tokens[i])
		}
	}
	if len(stale) == 0 {
		return
	}

	if err := c.devices.Deactivate(ctx, stale); err != nil {
		c.log.WithError(err).Warn("failed to deactivate stale device tokens")
		return
	}
	c.log.WithField("count", len(stale)).Info("deactivated stale device tokens")
}

func buildMulticast(msg common.NotificationMessage, tokens []string) *messaging.MulticastMessage {
	data := map[string]string{
		"notification_id": msg.ID,
		"type":            string(msg.Type),
	}
	for k, v := range msg.Data {
		if s, ok := v.(string); ok {
			data[k] = s
		}
	}
	if msg.ActionURL != nil {
		data["action_url"] = *msg.ActionURL
	}

	priority := "normal"
	if msg.Priority >= 4 {
		priority = "high"
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data:    data,
		Android: &messaging.AndroidConfig{Priority: priority},
	}
}
