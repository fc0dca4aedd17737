package common

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// NotificationMessage describes the intent to notify one recipient. Build it with
// NewNotificationMessage; it is passed by value and never mutated afterwards.
type NotificationMessage struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	Data        JSONMap          `json:"data,omitempty"`
	ActionURL   *string          `json:"action_url,omitempty"`
	ActionLabel *string          `json:"action_label,omitempty"`
	Priority    int              `json:"priority"`
	Channels    []ChannelKind    `json:"channels,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type NotificationParams struct {
	RecipientID string
	Type        NotificationType
	Title       string
	Body        string
	Data        JSONMap
	ActionURL   string
	ActionLabel string
	Priority    int
	Channels    []ChannelKind
}

func NewNotificationMessage(p NotificationParams) (NotificationMessage, error) {
	if p.Priority == 0 {
		p.Priority = DefaultPriority
	}

	msg := NotificationMessage{
		ID:          uuid.New().String(),
		RecipientID: strings.TrimSpace(p.RecipientID),
		Type:        p.Type,
		Title:       strings.TrimSpace(p.Title),
		Body:        p.Body,
		Data:        p.Data.Clone(),
		ActionURL:   optionalString(p.ActionURL),
		ActionLabel: optionalString(p.ActionLabel),
		Priority:    p.Priority,
		Channels:    UniqueChannels(p.Channels),
		CreatedAt:   time.Now().UTC(),
	}

	if msg.Title == "" {
		return NotificationMessage{}, NewValidationError("title is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return NotificationMessage{}, NewValidationError("body is required")
	}
	if err := msg.Validate(); err != nil {
		return NotificationMessage{}, err
	}

	return msg, nil
}

// Validate checks the invariants a decoded message must still satisfy.
func (m NotificationMessage) Validate() error {
	if m.ID == "" {
		return NewValidationError("message id is required")
	}
	if m.RecipientID == "" {
		return NewValidationError("recipient_id is required")
	}
	if !m.Type.IsValid() {
		return NewValidationError("invalid notification type: " + string(m.Type))
	}
	if m.Priority < MinPriority || m.Priority > MaxPriority {
		return NewValidationError("priority must be between 1 and 5")
	}
	for _, ch := range m.Channels {
		if !ch.IsValid() {
			return NewValidationError("unknown notification channel: " + string(ch))
		}
	}
	return nil
}

// ChannelSet returns a copy of the requested channels.
func (m NotificationMessage) ChannelSet() []ChannelKind {
	return append([]ChannelKind(nil), m.Channels...)
}

// UniqueChannels drops repeated channels, keeping the first occurrence.
func UniqueChannels(channels []ChannelKind) []ChannelKind {
	if len(channels) == 0 {
		return nil
	}
	seen := make(map[ChannelKind]struct{}, len(channels))
	out := make([]ChannelKind, 0, len(channels))
	for _, ch := range channels {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}

// DeliveryResult is the outcome of one channel attempt.
type DeliveryResult struct {
	Channel ChannelKind `json:"channel"`
	Success bool        `json:"success"`
	Reason  string      `json:"reason,omitempty"`
}

func Delivered(channel ChannelKind) DeliveryResult {
	return DeliveryResult{Channel: channel, Success: true}
}

func DeliveryFailed(channel ChannelKind, reason string) DeliveryResult {
	return DeliveryResult{Channel: channel, Success: false, Reason: reason}
}

type ChannelFailure struct {
	Channel ChannelKind `json:"channel"`
	Reason  string      `json:"reason"`
}

// DispatchResult aggregates the per-channel outcomes of one dispatch. Successful and
// Failed partition the requested channel set.
type DispatchResult struct {
	MessageID  string           `json:"message_id"`
	Successful []ChannelKind    `json:"successful"`
	Failed     []ChannelFailure `json:"failed"`
	results    []DeliveryResult
}

func NewDispatchResult(messageID string, results []DeliveryResult) DispatchResult {
	r := DispatchResult{
		MessageID:  messageID,
		Successful: []ChannelKind{},
		Failed:     []ChannelFailure{},
		results:    append([]DeliveryResult(nil), results...),
	}
	for _, res := range results {
		if res.Success {
			r.Successful = append(r.Successful, res.Channel)
			continue
		}
		r.Failed = append(r.Failed, ChannelFailure{Channel: res.Channel, Reason: res.Reason})
	}
	return r
}

// Requested returns the attempted channels in the order they were tried.
func (r DispatchResult) Requested() []ChannelKind {
	out := make([]ChannelKind, 0, len(r.results))
	for _, res := range r.results {
		out = append(out, res.Channel)
	}
	return out
}

func (r DispatchResult) Results() []DeliveryResult {
	return append([]DeliveryResult(nil), r.results...)
}

func (r DispatchResult) HasAllFailed() bool {
	return len(r.Successful) == 0 && len(r.Successful)+len(r.Failed) > 0
}

func (r DispatchResult) HasAnySucceeded() bool {
	return len(r.Successful) > 0
}

func (r DispatchResult) Succeeded(channel ChannelKind) bool {
	for _, ch := range r.Successful {
		if ch == channel {
			return true
		}
	}
	return false
}

// DispatchNotificationMessage is the queued request consumed by the worker.
type DispatchNotificationMessage struct {
	Notification NotificationMessage `json:"notification"`
	RequestedAt  time.Time           `json:"requested_at"`
}

func NewDispatchRequest(msg NotificationMessage) DispatchNotificationMessage {
	return DispatchNotificationMessage{Notification: msg, RequestedAt: time.Now().UTC()}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
