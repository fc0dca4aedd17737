package notif

import (
	"context"
	"time"

	"GoLoyalty/internal/common"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type NotificationService struct {
	repo      NotificationRepository
	devices   DeviceRegistry
	publisher common.DispatchPublisher
	events    common.Subject
	counter   UnreadCounter
	log       logrus.FieldLogger
}

// NewNotificationService wires the user-facing notification operations.
// counter may be nil when Redis is disabled.
func NewNotificationService(
	repo NotificationRepository,
	devices DeviceRegistry,
	publisher common.DispatchPublisher,
	events common.Subject,
	counter UnreadCounter,
	log logrus.FieldLogger,
) *NotificationService {
	return &NotificationService{
		repo:      repo,
		devices:   devices,
		publisher: publisher,
		events:    events,
		counter:   counter,
		log:       log.WithField("component", "notification_service"),
	}
}

// Send validates the request and enqueues it for dispatch. It returns the id
// the in-app row will carry.
func (s *NotificationService) Send(ctx context.Context, req SendNotificationRequest) (string, error) {
	if err := common.ValidateStruct(req); err != nil {
		return "", err
	}

	channels, err := common.ParseChannelKinds(req.Channels)
	if err != nil {
		return "", err
	}

	msg, err := common.NewNotificationMessage(common.NotificationParams{
		RecipientID: req.RecipientID,
		Type:        common.NotificationType(req.Type),
		Title:       req.Title,
		Body:        req.Body,
		Data:        req.Data,
		ActionURL:   req.ActionURL,
		ActionLabel: req.ActionLabel,
		Priority:    req.Priority,
		Channels:    channels,
	})
	if err != nil {
		return "", err
	}

	if err := s.publisher.Publish(ctx, common.NewDispatchRequest(msg)); err != nil {
		return "", errors.Wrap(err, "failed to enqueue notification")
	}

	s.log.WithFields(logrus.Fields{
		"notification_id": msg.ID,
		"recipient_id":    msg.RecipientID,
		"type":            msg.Type,
	}).Info("notification enqueued")

	return msg.ID, nil
}

func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*common.NotificationListResponse, error) {
	if err := common.ValidateUserID(userID); err != nil {
		return nil, err
	}
	page, limit = common.NormalizePage(page, limit)

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count notifications")
	}

	rows, err := s.repo.ByUserID(ctx, userID, limit, common.Offset(page, limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get notifications")
	}

	items := make([]common.NotificationResponse, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToResponse())
	}

	return &common.NotificationListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: common.TotalPages(total, limit),
	}, nil
}

// UnreadCount serves from the cache when present and repopulates it from the
// database otherwise.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if err := common.ValidateUserID(userID); err != nil {
		return 0, err
	}

	if s.counter != nil {
		n, ok, err := s.counter.Get(ctx, userID)
		if err != nil {
			s.log.WithError(err).Warn("unread counter unavailable, falling back to database")
		} else if ok {
			return n, nil
		}
	}

	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get unread count")
	}

	if s.counter != nil {
		if err := s.counter.Set(ctx, userID, n); err != nil {
			s.log.WithError(err).Warn("failed to cache unread count")
		}
	}
	return n, nil
}

// MarkAsRead marks one of userID's notifications read. Only the first
// transition publishes a read event.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	if notificationID == "" {
		return common.NewValidationError("notification id is required")
	}
	if err := common.ValidateUserID(userID); err != nil {
		return err
	}

	changed, err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.events.PublishAsync(common.NotificationEvent{
		Kind:           common.EventRead,
		NotificationID: notificationID,
		UserID:         userID,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	if err := common.ValidateUserID(userID); err != nil {
		return 0, err
	}

	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.counter != nil {
		if err := s.counter.Set(ctx, userID, 0); err != nil {
			s.log.WithError(err).Warn("failed to reset unread counter")
		}
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"updated": updated,
	}).Info("notifications marked as read")
	return updated, nil
}

// SubmitContactMessage validates a contact form and announces it to observers.
func (s *NotificationService) SubmitContactMessage(ctx context.Context, msg common.ContactMessage) error {
	if err := common.ValidateStruct(msg); err != nil {
		return err
	}

	s.events.Publish(common.NotificationEvent{
		Kind:       common.EventContactMessage,
		Contact:    &msg,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req RegisterDeviceRequest) error {
	if err := common.ValidateUserID(userID); err != nil {
		return err
	}
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	if err := s.devices.Register(ctx, userID, req.Token, req.Platform); err != nil {
		return errors.Wrap(err, "failed to register device")
	}
	return nil
}
