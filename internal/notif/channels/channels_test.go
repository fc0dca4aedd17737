package channels

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/config"
	"GoLoyalty/internal/dbmysql"

	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationWriter struct {
	mock.Mock
}

func (m *MockNotificationWriter) Create(ctx context.Context, notification *dbmysql.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(ctx context.Context, data common.EmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type MockMulticastSender struct {
	mock.Mock
}

func (m *MockMulticastSender) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	args := m.Called(ctx, message)
	resp, _ := args.Get(0).(*messaging.BatchResponse)
	return resp, args.Error(1)
}

type MockDeviceStore struct {
	mock.Mock
}

func (m *MockDeviceStore) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]string)
	return tokens, args.Error(1)
}

func (m *MockDeviceStore) Deactivate(ctx context.Context, tokens []string) error {
	args := m.Called(ctx, tokens)
	return args.Error(0)
}

func testMessage(t *testing.T, data common.JSONMap) common.NotificationMessage {
	t.Helper()
	msg, err := common.NewNotificationMessage(common.NotificationParams{
		RecipientID: "user-1",
		Type:        common.RewardType,
		Title:       "Points earned",
		Body:        "You earned 50 points.",
		Data:        data,
		ActionURL:   "https://app.goloyalty.test/rewards",
		ActionLabel: "View rewards",
		Priority:    4,
	})
	require.NoError(t, err)
	return msg
}

func TestInAppChannel_Send(t *testing.T) {
	repo := &MockNotificationWriter{}
	ch := NewInAppChannel(repo)
	msg := testMessage(t, common.JSONMap{"points": 50})

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *dbmysql.Notification) bool {
		return n.ID == msg.ID && n.UserID == "user-1" && n.Message == msg.Body && n.Priority == 4
	})).Return(nil).Once()

	assert.Equal(t, common.ChannelInApp, ch.Kind())
	require.NoError(t, ch.Send(context.Background(), msg))
	repo.AssertExpectations(t)
}

func TestInAppChannel_SendError(t *testing.T) {
	repo := &MockNotificationWriter{}
	ch := NewInAppChannel(repo)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	err := ch.Send(context.Background(), testMessage(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store in-app notification")
}

func TestEmailChannel_Send(t *testing.T) {
	sender := &MockEmailService{}
	ch := NewEmailChannel(sender, 0, "GoLoyalty")

	sender.On("SendEmail", mock.Anything, common.EmailData{
		To:      []string{"ann@example.com"},
		Subject: "GoLoyalty: Points earned",
		Body:    "You earned 50 points.\n\nView rewards: https://app.goloyalty.test/rewards",
	}).Return(nil).Once()

	require.NoError(t, ch.Send(context.Background(), testMessage(t, common.JSONMap{"email": "ann@example.com"})))
	sender.AssertExpectations(t)
}

func TestEmailChannel_NoAddress(t *testing.T) {
	sender := &MockEmailService{}
	ch := NewEmailChannel(sender, 10, "")

	err := ch.Send(context.Background(), testMessage(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestEmailChannel_RateLimitRespectsContext(t *testing.T) {
	sender := &MockEmailService{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
	ch := NewEmailChannel(sender, 0.001, "")
	msg := testMessage(t, common.JSONMap{"email": "ann@example.com"})

	// the single burst token is spent by the first send
	require.NoError(t, ch.Send(context.Background(), msg))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := ch.Send(ctx, msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email rate limit")
	sender.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestPushChannel_Send(t *testing.T) {
	logger, _ := test.NewNullLogger()
	fcm := &MockMulticastSender{}
	devices := &MockDeviceStore{}
	ch := NewPushChannel(fcm, devices, logger)
	msg := testMessage(t, common.JSONMap{"points": 50, "campaign": "spring"})

	devices.On("ActiveTokens", mock.Anything, "user-1").Return([]string{"tok-a", "tok-b"}, nil)
	fcm.On("SendEachForMulticast", mock.Anything, mock.MatchedBy(func(m *messaging.MulticastMessage) bool {
		return len(m.Tokens) == 2 &&
			m.Notification.Title == "Points earned" &&
			m.Data["notification_id"] == msg.ID &&
			m.Data["campaign"] == "spring" &&
			m.Android.Priority == "high"
	})).Return(&messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "m-1"},
			{Success: false, Error: errors.New("unavailable")},
		},
	}, nil)

	require.NoError(t, ch.Send(context.Background(), msg))
	devices.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	fcm.AssertExpectations(t)
}

func TestPushChannel_Failures(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		resp    *messaging.BatchResponse
		sendErr error
		want    string
	}{
		{
			name:   "no devices",
			tokens: nil,
			want:   "no active devices",
		},
		{
			name:    "deadline",
			tokens:  []string{"tok-a"},
			sendErr: context.DeadlineExceeded,
			want:    "timeout",
		},
		{
			name:    "transport error",
			tokens:  []string{"tok-a"},
			sendErr: errors.New("tls handshake failure"),
			want:    "failed to send FCM",
		},
		{
			name:   "every device rejected",
			tokens: []string{"tok-a"},
			resp: &messaging.BatchResponse{
				FailureCount: 1,
				Responses:    []*messaging.SendResponse{{Error: errors.New("quota exceeded")}},
			},
			want: "rejected by all 1 devices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			fcm := &MockMulticastSender{}
			devices := &MockDeviceStore{}
			ch := NewPushChannel(fcm, devices, logger)

			devices.On("ActiveTokens", mock.Anything, "user-1").Return(tt.tokens, nil)
			fcm.On("SendEachForMulticast", mock.Anything, mock.Anything).Return(tt.resp, tt.sendErr)

			err := ch.Send(context.Background(), testMessage(t, nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSMTPClient_Validation(t *testing.T) {
	data := common.EmailData{To: []string{"ann@example.com"}, Subject: "s", Body: "b"}

	err := NewSMTPClient(config.EmailConfig{FromEmail: "noreply@goloyalty.test"}).SendEmail(context.Background(), data)
	assert.EqualError(t, err, "smtp host not configured")

	err = NewSMTPClient(config.EmailConfig{SMTPHost: "localhost", SMTPPort: 25}).SendEmail(context.Background(), data)
	assert.EqualError(t, err, "smtp sender not configured")

	err = NewSMTPClient(config.EmailConfig{SMTPHost: "localhost", SMTPPort: 25, FromEmail: "noreply@goloyalty.test"}).
		SendEmail(context.Background(), common.EmailData{Subject: "s"})
	assert.EqualError(t, err, "email has no recipients")
}

func TestSMTPClient_Compose(t *testing.T) {
	c := NewSMTPClient(config.EmailConfig{FromEmail: "noreply@goloyalty.test", FromName: "GoLoyalty"})

	raw := string(c.compose(common.EmailData{
		To:      []string{"ann@example.com", "bob@example.com"},
		Subject: "Welcome",
		Body:    "<p>Hi</p>",
		IsHTML:  true,
	}))

	assert.Contains(t, raw, "From: \"GoLoyalty\" <noreply@goloyalty.test>\r\n")
	assert.Contains(t, raw, "To: ann@example.com, bob@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>Hi</p>")
}

func TestSMTPClient_ComposeFoldsHeaderValues(t *testing.T) {
	c := NewSMTPClient(config.EmailConfig{FromEmail: "noreply@goloyalty.test"})

	raw := string(c.compose(common.EmailData{
		To:      []string{"admin@goloyalty.test"},
		Subject: "Contact form: hi\r\nBcc: victim@example.com",
		Body:    "hello",
	}))

	headers := raw[:strings.Index(raw, "\r\n\r\n")]
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Subject: Contact form: hi Bcc: victim@example.com\r\n")
}

func TestSMTPClient_ComposeEncodesNonASCIISubject(t *testing.T) {
	c := NewSMTPClient(config.EmailConfig{FromEmail: "noreply@goloyalty.test"})

	raw := string(c.compose(common.EmailData{
		To:      []string{"ann@example.com"},
		Subject: "Prämie erhalten",
		Body:    "b",
	}))

	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.NotContains(t, raw, "Prämie")
}
