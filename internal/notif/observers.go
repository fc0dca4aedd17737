package notif

import (
	"context"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/metrics"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	observerTimeout      = 10 * time.Second
	NotificationReadType = "NOTIFICATION_READ"
)

// MarkSentObserver stamps sent_at on the in-app row once it was delivered.
type MarkSentObserver struct {
	repo NotificationRepository
}

func NewMarkSentObserver(repo NotificationRepository) *MarkSentObserver {
	return &MarkSentObserver{repo: repo}
}

func (o *MarkSentObserver) Name() string {
	return "mark_sent_observer"
}

func (o *MarkSentObserver) Update(event common.NotificationEvent) error {
	if event.Kind != common.EventDispatched || event.Result == nil || !event.Result.Succeeded(common.ChannelInApp) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), observerTimeout)
	defer cancel()

	if err := o.repo.MarkSent(ctx, event.NotificationID, event.OccurredAt); err != nil {
		return errors.Wrap(err, "failed to mark notification sent")
	}
	return nil
}

// UnreadCounterObserver keeps the cached unread count in step with in-app
// deliveries and reads.
type UnreadCounterObserver struct {
	counter UnreadCounter
}

func NewUnreadCounterObserver(counter UnreadCounter) *UnreadCounterObserver {
	return &UnreadCounterObserver{counter: counter}
}

func (o *UnreadCounterObserver) Name() string {
	return "unread_counter_observer"
}

func (o *UnreadCounterObserver) Update(event common.NotificationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), observerTimeout)
	defer cancel()

	switch event.Kind {
	case common.EventDispatched:
		if event.Result == nil || !event.Result.Succeeded(common.ChannelInApp) {
			return nil
		}
		return o.counter.Increment(ctx, event.UserID, event.NotificationID)
	case common.EventRead:
		return o.counter.Decrement(ctx, event.UserID, event.NotificationID)
	}
	return nil
}

type MetricsObserver struct {
	metrics *metrics.Metrics
}

func NewMetricsObserver(m *metrics.Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) Name() string {
	return "metrics_observer"
}

func (o *MetricsObserver) Update(event common.NotificationEvent) error {
	o.metrics.Events.WithLabelValues(string(event.Kind)).Inc()

	if event.Kind != common.EventDispatched && event.Kind != common.EventFailed {
		return nil
	}

	o.metrics.Dispatches.WithLabelValues(string(event.Kind)).Inc()
	if event.Result == nil {
		return nil
	}
	for _, res := range event.Result.Results() {
		status := "failed"
		if res.Success {
			status = "success"
		}
		o.metrics.ChannelDeliveries.WithLabelValues(string(res.Channel), status).Inc()
	}
	return nil
}

// ActivityObserver writes read events into the user's activity history.
type ActivityObserver struct {
	recorder common.ActivityRecorder
}

func NewActivityObserver(recorder common.ActivityRecorder) *ActivityObserver {
	return &ActivityObserver{recorder: recorder}
}

func (o *ActivityObserver) Name() string {
	return "activity_observer"
}

func (o *ActivityObserver) Update(event common.NotificationEvent) error {
	if event.Kind != common.EventRead {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), observerTimeout)
	defer cancel()

	return o.recorder.Record(ctx, event.UserID, NotificationReadType, common.JSONMap{
		"notification_id": event.NotificationID,
	})
}

// ContactEmailObserver forwards contact-form submissions to the admin mailbox
// through the regular dispatch queue.
type ContactEmailObserver struct {
	publisher      common.DispatchPublisher
	adminRecipient string
	adminEmail     string
	log            logrus.FieldLogger
}

func NewContactEmailObserver(publisher common.DispatchPublisher, adminRecipient, adminEmail string, log logrus.FieldLogger) *ContactEmailObserver {
	return &ContactEmailObserver{
		publisher:      publisher,
		adminRecipient: adminRecipient,
		adminEmail:     adminEmail,
		log:            log.WithField("component", "contact_email_observer"),
	}
}

func (o *ContactEmailObserver) Name() string {
	return "contact_email_observer"
}

func (o *ContactEmailObserver) Update(event common.NotificationEvent) error {
	if event.Kind != common.EventContactMessage || event.Contact == nil {
		return nil
	}
	if o.adminEmail == "" {
		o.log.Warn("admin email not configured, contact message not forwarded")
		return nil
	}

	c := event.Contact
	msg, err := common.NewNotificationMessage(common.NotificationParams{
		RecipientID: o.adminRecipient,
		Type:        common.ContactMessageType,
		Title:       "Contact form: " + c.Subject,
		Body:        "From " + c.Name + " <" + c.Email + ">\n\n" + c.Message,
		Data: common.JSONMap{
			"email":    o.adminEmail,
			"reply_to": c.Email,
		},
		Priority: 4,
		Channels: []common.ChannelKind{common.ChannelEmail},
	})
	if err != nil {
		return errors.Wrap(err, "failed to build contact notification")
	}

	ctx, cancel := context.WithTimeout(context.Background(), observerTimeout)
	defer cancel()

	if err := o.publisher.Publish(ctx, common.NewDispatchRequest(msg)); err != nil {
		return errors.Wrap(err, "failed to enqueue contact notification")
	}
	return nil
}
