package activity

import (
	"net/http"

	"GoLoyalty/internal/common"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{
		service: service,
		log:     log.WithField("component", "activity_handler"),
	}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/activities", h.ListActivities).Methods(http.MethodGet)
}

// ListActivities serves GET /activities?page=&limit=&type=&from=&to=&userId=.
// Only admins may read another user's history.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	callerID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		common.WriteError(w, h.log, common.NewUnauthorizedError("authentication required"))
		return
	}

	userID := callerID
	if requested := r.URL.Query().Get("userId"); requested != "" && requested != callerID {
		if !common.IsAdmin(r.Context()) {
			common.WriteError(w, h.log, common.NewForbiddenError("cannot read another user's activities"))
			return
		}
		userID = requested
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
	from, err := common.QueryTime(r, "from")
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}
	to, err := common.QueryTime(r, "to")
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}

	filter := common.ActivityFilter{
		Type: r.URL.Query().Get("type"),
		From: from,
		To:   to,
	}

	resp, err := h.service.List(r.Context(), userID, page, limit, filter)
	if err != nil {
		common.WriteError(w, h.log, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, resp)
}
