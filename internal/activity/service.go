package activity

import (
	"context"

	"GoLoyalty/internal/common"

	"github.com/pkg/errors"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of userID's activities, newest first.
func (s *Service) List(ctx context.Context, userID string, page, limit int, filter common.ActivityFilter) (*common.ActivityListResponse, error) {
	if err := common.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := common.ValidateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	page, limit = common.NormalizePage(page, limit)

	total, err := s.store.CountByUser(ctx, userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count activities")
	}

	items, err := s.store.FindByUserPaginated(ctx, userID, page, limit, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list activities")
	}
	if items == nil {
		items = []common.UserActivity{}
	}

	return &common.ActivityListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: common.TotalPages(total, limit),
	}, nil
}
