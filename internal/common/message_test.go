package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationMessage(t *testing.T) {
	tests := []struct {
		name    string
		params  NotificationParams
		wantErr string
	}{
		{
			name:   "valid with defaults",
			params: NotificationParams{RecipientID: "user-1", Type: RewardType, Title: "Points", Body: "You earned 50 points"},
		},
		{
			name:    "missing recipient",
			params:  NotificationParams{Type: RewardType, Title: "Points", Body: "body"},
			wantErr: "recipient_id is required",
		},
		{
			name:    "blank title",
			params:  NotificationParams{RecipientID: "user-1", Type: RewardType, Title: "   ", Body: "body"},
			wantErr: "title is required",
		},
		{
			name:    "priority out of range",
			params:  NotificationParams{RecipientID: "user-1", Type: RewardType, Title: "t", Body: "b", Priority: 9},
			wantErr: "priority must be between 1 and 5",
		},
		{
			name:    "unknown type",
			params:  NotificationParams{RecipientID: "user-1", Type: "spam", Title: "t", Body: "b"},
			wantErr: "invalid notification type",
		},
		{
			name:    "unknown channel",
			params:  NotificationParams{RecipientID: "user-1", Type: RewardType, Title: "t", Body: "b", Channels: []ChannelKind{"sms"}},
			wantErr: "unknown notification channel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewNotificationMessage(tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, msg.ID)
			assert.Equal(t, DefaultPriority, msg.Priority)
			assert.False(t, msg.CreatedAt.IsZero())
		})
	}
}

func TestNewNotificationMessage_DedupesChannelsAndCopiesData(t *testing.T) {
	data := JSONMap{"email": "a@example.com"}
	msg, err := NewNotificationMessage(NotificationParams{
		RecipientID: "user-1",
		Type:        OrderType,
		Title:       "Order shipped",
		Body:        "Your order is on its way",
		Data:        data,
		ActionURL:   "https://example.com/orders/1",
		Channels:    []ChannelKind{ChannelEmail, ChannelPush, ChannelEmail},
	})
	require.NoError(t, err)

	assert.Equal(t, []ChannelKind{ChannelEmail, ChannelPush}, msg.ChannelSet())
	require.NotNil(t, msg.ActionURL)
	assert.Nil(t, msg.ActionLabel)

	data["email"] = "changed@example.com"
	assert.Equal(t, "a@example.com", msg.Data["email"])
}

func TestDispatchResult_Partition(t *testing.T) {
	result := NewDispatchResult("msg-1", []DeliveryResult{
		Delivered(ChannelEmail),
		DeliveryFailed(ChannelPush, "timeout"),
	})

	assert.Equal(t, []ChannelKind{ChannelEmail}, result.Successful)
	assert.Equal(t, []ChannelFailure{{Channel: ChannelPush, Reason: "timeout"}}, result.Failed)
	assert.Equal(t, []ChannelKind{ChannelEmail, ChannelPush}, result.Requested())
	assert.True(t, result.HasAnySucceeded())
	assert.False(t, result.HasAllFailed())
	assert.True(t, result.Succeeded(ChannelEmail))
	assert.False(t, result.Succeeded(ChannelPush))
}

func TestDispatchResult_AllFailed(t *testing.T) {
	result := NewDispatchResult("msg-1", []DeliveryResult{
		DeliveryFailed(ChannelEmail, "no address"),
		DeliveryFailed(ChannelInApp, "db down"),
	})
	assert.True(t, result.HasAllFailed())
	assert.False(t, result.HasAnySucceeded())

	empty := NewDispatchResult("msg-2", nil)
	assert.False(t, empty.HasAllFailed())
	assert.False(t, empty.HasAnySucceeded())
}

func TestParseChannelKinds(t *testing.T) {
	kinds, err := ParseChannelKinds([]string{"Email", " push ", "in_app"})
	require.NoError(t, err)
	assert.Equal(t, []ChannelKind{ChannelEmail, ChannelPush, ChannelInApp}, kinds)

	_, err = ParseChannelKinds([]string{"carrier-pigeon"})
	require.Error(t, err)
}

func TestJSONMap_ValueAndScan(t *testing.T) {
	var nilMap JSONMap
	v, err := nilMap.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	m := JSONMap{"ip": "10.0.0.1"}
	v, err = m.Value()
	require.NoError(t, err)

	var scanned JSONMap
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, "10.0.0.1", scanned["ip"])

	require.Error(t, scanned.Scan(42))
}
