package notif

import (
	"encoding/json"
	"net/http"

	"GoLoyalty/internal/common"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type HTTPHandler struct {
	service *NotificationService
	log     logrus.FieldLogger
}

func NewHTTPHandler(service *NotificationService, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		log:     log.WithField("component", "notification_handler"),
	}
}

// RegisterRoutes mounts the authenticated notification routes.
func (h *HTTPHandler) RegisterRoutes(api *mux.Router) {
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.HandleFunc("/send", h.SendNotification).Methods(http.MethodPost)
	notifications.HandleFunc("", h.ListNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/unread-count", h.UnreadCount).Methods(http.MethodGet)
	notifications.HandleFunc("/read-all", h.MarkAllAsRead).Methods(http.MethodPut)
	notifications.HandleFunc("/{id}/read", h.MarkAsRead).Methods(http.MethodPut)
	notifications.HandleFunc("/device/register", h.RegisterDevice).Methods(http.MethodPost)
}

// RegisterPublicRoutes mounts routes that need no bearer token.
func (h *HTTPHandler) RegisterPublicRoutes(api *mux.Router) {
	api.HandleFunc("/contact", h.SubmitContact).Methods(http.MethodPost)
}

func (h *HTTPHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	if !common.IsAdmin(r.Context()) {
		common.WriteError(w, h.log, common.NewForbiddenError("only admins can send notifications"))
		return
	}

	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, h.log, common.NewValidationError("invalid request body"))
		return
	}

	id, err := h.service.Send(r.Context(), req)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}

	common.WriteJSON(w, http.StatusAccepted, SendNotificationResponse{ID: id})
}

func (h *HTTPHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	page, err := common.QueryInt(r, "page", 1)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	limit, err := common.QueryInt(r, "limit", common.DefaultPageSize)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}

	resp, err := h.service.List(r.Context(), userID, page, limit)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	n, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, UnreadCountResponse{Count: n})
}

func (h *HTTPHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	n, err := h.service.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, MarkAllAsReadResponse{Updated: n})
}

func (h *HTTPHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, h.log, common.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.RegisterDevice(r.Context(), userID, req); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var msg common.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		common.WriteError(w, h.log, common.NewValidationError("invalid request body"))
		return
	}

	if err := h.service.SubmitContactMessage(r.Context(), msg); err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *HTTPHandler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteError(w, h.log, common.NewUnauthorizedError("authentication required"))
		return "", false
	}
	return userID, true
}
