package notif

import (
	"context"
	"fmt"
	"time"

	"GoLoyalty/internal/common"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NotificationDispatcher delivers one message over its channels and reports
// the per-channel outcome.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, msg common.NotificationMessage) (common.DispatchResult, error)
}

type Dispatcher struct {
	channels map[common.ChannelKind]common.Channel
	defaults []common.ChannelKind
	events   common.Subject
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewDispatcher registers channels by kind. defaults are used for messages
// that name no channels. events may be nil.
func NewDispatcher(channels []common.Channel, defaults []common.ChannelKind, events common.Subject, log logrus.FieldLogger) *Dispatcher {
	registry := make(map[common.ChannelKind]common.Channel, len(channels))
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		registry[ch.Kind()] = ch
	}

	return &Dispatcher{
		channels: registry,
		defaults: common.UniqueChannels(defaults),
		events:   events,
		log:      log.WithField("component", "dispatcher"),
		now:      time.Now,
	}
}

// Dispatch tries every requested channel once, in order. Channel errors and
// panics become failures in the result; only a malformed message returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, msg common.NotificationMessage) (common.DispatchResult, error) {
	if err := msg.Validate(); err != nil {
		return common.DispatchResult{}, errors.Wrap(err, "malformed notification")
	}

	requested := d.ResolveChannels(msg)
	if len(requested) == 0 {
		return common.DispatchResult{}, errors.Errorf("notification %s has no channels to dispatch to", msg.ID)
	}

	results := make([]common.DeliveryResult, 0, len(requested))
	for _, kind := range requested {
		results = append(results, d.send(ctx, kind, msg))
	}

	result := common.NewDispatchResult(msg.ID, results)
	d.publish(msg, result)

	return result, nil
}

// ResolveChannels returns the channels Dispatch will try for msg, falling back
// to the configured defaults.
func (d *Dispatcher) ResolveChannels(msg common.NotificationMessage) []common.ChannelKind {
	requested := msg.ChannelSet()
	if len(requested) == 0 {
		requested = append([]common.ChannelKind(nil), d.defaults...)
	}
	return common.UniqueChannels(requested)
}

func (d *Dispatcher) send(ctx context.Context, kind common.ChannelKind, msg common.NotificationMessage) (res common.DeliveryResult) {
	channel, ok := d.channels[kind]
	if !ok {
		return common.DeliveryFailed(kind, "channel not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{
				"channel":         kind,
				"notification_id": msg.ID,
				"panic":           r,
			}).Error("channel panicked")
			res = common.DeliveryFailed(kind, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := channel.Send(ctx, msg); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"channel":         kind,
			"notification_id": msg.ID,
		}).Debug("channel delivery failed")
		return common.DeliveryFailed(kind, err.Error())
	}

	return common.Delivered(kind)
}

func (d *Dispatcher) publish(msg common.NotificationMessage, result common.DispatchResult) {
	if d.events == nil {
		return
	}

	at := d.now().UTC()
	base := common.NotificationEvent{
		NotificationID: msg.ID,
		UserID:         msg.RecipientID,
		Type:           msg.Type,
		OccurredAt:     at,
	}

	for _, kind := range result.Successful {
		ev := base
		ev.Kind = common.EventSent
		ev.Channel = kind
		d.events.Publish(ev)
	}

	ev := base
	ev.Result = &result
	if result.HasAnySucceeded() {
		ev.Kind = common.EventDispatched
	} else {
		ev.Kind = common.EventFailed
	}
	d.events.Publish(ev)
}
