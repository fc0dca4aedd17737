package common

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type NotificationType string

const (
	SystemType         NotificationType = "system"
	OrderType          NotificationType = "order"
	RewardType         NotificationType = "reward"
	PromotionType      NotificationType = "promotion"
	AccountType        NotificationType = "account"
	ContactMessageType NotificationType = "contact_message"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case SystemType, OrderType, RewardType, PromotionType, AccountType, ContactMessageType:
		return true
	}
	return false
}

// ChannelKind is the closed set of delivery channels known at compile time.
type ChannelKind string

const (
	ChannelEmail ChannelKind = "email"
	ChannelPush  ChannelKind = "push"
	ChannelInApp ChannelKind = "in_app"
)

// AllChannelKinds lists every supported channel in a stable order.
var AllChannelKinds = []ChannelKind{ChannelEmail, ChannelPush, ChannelInApp}

func (c ChannelKind) String() string {
	return string(c)
}

func (c ChannelKind) IsValid() bool {
	return c == ChannelEmail || c == ChannelPush || c == ChannelInApp
}

// ParseChannelKind maps an external channel identifier onto a ChannelKind.
func ParseChannelKind(id string) (ChannelKind, error) {
	kind := ChannelKind(strings.ToLower(strings.TrimSpace(id)))
	if !kind.IsValid() {
		return "", NewValidationError("unknown notification channel: " + id)
	}
	return kind, nil
}

func ParseChannelKinds(ids []string) ([]ChannelKind, error) {
	kinds := make([]ChannelKind, 0, len(ids))
	for _, id := range ids {
		kind, err := ParseChannelKind(id)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
	StatusRead    NotificationStatus = "read"
)

// JSONMap is an opaque key/value document stored as a JSON column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode json map")
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported json map source %T", value)
	}

	decoded := JSONMap{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return errors.Wrap(err, "failed to decode json map")
	}
	*m = decoded
	return nil
}

// Clone returns a shallow copy so callers cannot mutate shared state.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UserActivity is an immutable audit record of something a user or actor did.
type UserActivity struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Payload    JSONMap   `json:"payload"`
	ActorID    *string   `json:"actorId"`
	ActorType  *string   `json:"actorType"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityFilter narrows activity queries. Zero values mean "no constraint".
type ActivityFilter struct {
	Type string
	From *time.Time
	To   *time.Time
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=120,singleline"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=255,singleline"`
	Message string `json:"message" validate:"required,max=5000"`
}

type EventKind string

const (
	EventDispatched     EventKind = "notification.dispatched"
	EventFailed         EventKind = "notification.failed"
	EventSent           EventKind = "notification.sent"
	EventRead           EventKind = "notification.read"
	EventContactMessage EventKind = "contact.message_received"
)

// NotificationEvent is broadcast to observers after dispatch and read transitions.
type NotificationEvent struct {
	Kind           EventKind
	NotificationID string
	UserID         string
	Type           NotificationType
	Channel        ChannelKind
	Result         *DispatchResult
	Contact        *ContactMessage
	OccurredAt     time.Time
}

type NotificationResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Data        JSONMap    `json:"data"`
	IsRead      bool       `json:"isRead"`
	ReadAt      *time.Time `json:"readAt"`
	SentAt      *time.Time `json:"sentAt"`
	ActionURL   *string    `json:"actionUrl"`
	ActionLabel *string    `json:"actionLabel"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"totalPages"`
}

type ActivityListResponse struct {
	Items      []UserActivity `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}
