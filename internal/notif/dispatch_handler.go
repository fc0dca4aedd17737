package notif

import (
	"context"

	"GoLoyalty/internal/common"

	"github.com/sirupsen/logrus"
)

type channelResolver interface {
	ResolveChannels(msg common.NotificationMessage) []common.ChannelKind
}

// DispatchHandler is the queue-side entry point: it unwraps a dispatch request
// and hands it to the dispatcher.
type DispatchHandler struct {
	dispatcher NotificationDispatcher
	log        logrus.FieldLogger
}

func NewDispatchHandler(dispatcher NotificationDispatcher, log logrus.FieldLogger) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		log:        log.WithField("component", "dispatch_handler"),
	}
}

// Handle returns the dispatcher's error unchanged so the queue can redeliver.
// Channel failures are not errors.
func (h *DispatchHandler) Handle(ctx context.Context, req common.DispatchNotificationMessage) error {
	msg := req.Notification
	fields := logrus.Fields{
		"notification_id":  msg.ID,
		"type":             msg.Type,
		"recipient_id":     msg.RecipientID,
		"channels":         msg.Channels,
		"default_channels": len(msg.Channels) == 0,
	}
	if r, ok := h.dispatcher.(channelResolver); ok {
		fields["channels"] = r.ResolveChannels(msg)
	}
	h.log.WithFields(fields).Info("dispatching notification")

	result, err := h.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		h.log.WithError(err).WithFields(fields).Error("notification dispatch failed")
		return err
	}

	fields["successful"] = result.Successful
	fields["failed"] = result.Failed
	if result.HasAllFailed() {
		h.log.WithFields(fields).Warn("notification failed on every channel")
		return nil
	}

	h.log.WithFields(fields).Info("notification dispatched")
	return nil
}
