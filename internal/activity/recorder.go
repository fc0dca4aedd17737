package activity

import (
	"context"
	"strings"
	"time"

	"GoLoyalty/internal/common"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Recorder struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewRecorder(store Store, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		store: store,
		log:   log.WithField("component", "activity_recorder"),
		now:   time.Now,
	}
}

// Record persists one activity for userID. With common.Async() the call is
// accepted but nothing is stored; asynchronous recording has no backing queue.
func (r *Recorder) Record(ctx context.Context, userID, activityType string, payload common.JSONMap, opts ...common.RecordOption) error {
	o := common.ApplyRecordOptions(opts...)

	activity, err := r.build(userID, activityType, payload, o)
	if err != nil {
		return err
	}

	if o.Async {
		r.log.WithFields(logrus.Fields{
			"user_id": activity.UserID,
			"type":    activity.Type,
		}).Warn("async activity recording is not wired; activity was not persisted")
		return nil
	}

	if err := r.store.Add(ctx, activity); err != nil {
		return errors.Wrap(err, "failed to record activity")
	}

	r.log.WithFields(logrus.Fields{
		"activity_id": activity.ID,
		"user_id":     activity.UserID,
		"type":        activity.Type,
	}).Debug("activity recorded")
	return nil
}

// RecordBatch persists all activities in a single store operation. Missing ids,
// timestamps and payloads are filled in.
func (r *Recorder) RecordBatch(ctx context.Context, activities []common.UserActivity) error {
	if len(activities) == 0 {
		return nil
	}

	batch := make([]common.UserActivity, 0, len(activities))
	for _, a := range activities {
		if err := validate(a.UserID, a.Type); err != nil {
			return err
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.OccurredAt.IsZero() {
			a.OccurredAt = r.now()
		}
		a.OccurredAt = a.OccurredAt.UTC()
		if a.Payload == nil {
			a.Payload = common.JSONMap{}
		}
		batch = append(batch, a)
	}

	if err := r.store.AddBatch(ctx, batch); err != nil {
		return errors.Wrap(err, "failed to record activity batch")
	}

	r.log.WithField("count", len(batch)).Debug("activity batch recorded")
	return nil
}

func (r *Recorder) build(userID, activityType string, payload common.JSONMap, o common.RecordOptions) (common.UserActivity, error) {
	userID = strings.TrimSpace(userID)
	activityType = strings.TrimSpace(activityType)
	if err := validate(userID, activityType); err != nil {
		return common.UserActivity{}, err
	}

	data := payload.Clone()
	if data == nil {
		data = common.JSONMap{}
	}

	return common.UserActivity{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       activityType,
		Payload:    data,
		ActorID:    o.ActorID,
		ActorType:  o.ActorType,
		OccurredAt: r.now().UTC(),
	}, nil
}

func validate(userID, activityType string) error {
	if err := common.ValidateUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(activityType) == "" {
		return common.NewValidationError("activity type is required")
	}
	return nil
}
