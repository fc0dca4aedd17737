package notif

import (
	"context"
	"sync"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/dbmysql"

	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ByUserID(ctx context.Context, userID string, limit, offset int) ([]dbmysql.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	rows, _ := args.Get(0).([]dbmysql.Notification)
	return rows, args.Error(1)
}

func (m *MockNotificationRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

type MockDeviceRegistry struct {
	mock.Mock
}

func (m *MockDeviceRegistry) Register(ctx context.Context, userID, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, req common.DispatchNotificationMessage) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockUnreadCounter struct {
	mock.Mock
}

func (m *MockUnreadCounter) Increment(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockUnreadCounter) Decrement(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockUnreadCounter) Get(ctx context.Context, userID string) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockUnreadCounter) Set(ctx context.Context, userID string, count int64) error {
	args := m.Called(ctx, userID, count)
	return args.Error(0)
}

type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(ctx context.Context, userID, activityType string, payload common.JSONMap, opts ...common.RecordOption) error {
	args := m.Called(ctx, userID, activityType, payload)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, msg common.NotificationMessage) (common.DispatchResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(common.DispatchResult), args.Error(1)
}

// stubChannel answers Send with a fixed error, or panics when panicWith is set.
type stubChannel struct {
	kind      common.ChannelKind
	err       error
	panicWith interface{}

	mu    sync.Mutex
	calls int
}

func (c *stubChannel) Kind() common.ChannelKind {
	return c.kind
}

func (c *stubChannel) Send(ctx context.Context, msg common.NotificationMessage) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panicWith != nil {
		panic(c.panicWith)
	}
	return c.err
}

func (c *stubChannel) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// recordingSubject captures published events in order.
type recordingSubject struct {
	mu     sync.Mutex
	events []common.NotificationEvent
}

func (s *recordingSubject) Subscribe(common.Observer)   {}
func (s *recordingSubject) Unsubscribe(common.Observer) {}

func (s *recordingSubject) Publish(event common.NotificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSubject) PublishAsync(event common.NotificationEvent) {
	s.Publish(event)
}

func (s *recordingSubject) Events() []common.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]common.NotificationEvent(nil), s.events...)
}
