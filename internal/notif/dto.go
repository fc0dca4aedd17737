package notif

import "GoLoyalty/internal/common"

type SendNotificationRequest struct {
	RecipientID string         `json:"recipientId" validate:"required,max=64"`
	Type        string         `json:"type" validate:"required"`
	Title       string         `json:"title" validate:"required,max=255"`
	Body        string         `json:"body" validate:"required"`
	Data        common.JSONMap `json:"data"`
	ActionURL   string         `json:"actionUrl" validate:"omitempty,url,max=512"`
	ActionLabel string         `json:"actionLabel" validate:"omitempty,max=100"`
	Priority    int            `json:"priority" validate:"omitempty,min=1,max=5"`
	Channels    []string       `json:"channels" validate:"omitempty,dive,required"`
}

type SendNotificationResponse struct {
	ID string `json:"id"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required,max=255"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllAsReadResponse struct {
	Updated int64 `json:"updated"`
}
