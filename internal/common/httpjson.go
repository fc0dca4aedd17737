package common

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code. Client errors are logged at debug;
// anything unexpected is logged at error and its detail is hidden.
func WriteError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		WriteJSON(w, code, ErrorResponse{Error: "internal server error"})
		return
	}

	log.WithError(err).Debug("request rejected")
	msg := err.Error()
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	WriteJSON(w, code, ErrorResponse{Error: msg})
}

// QueryInt reads an integer query parameter, falling back when absent.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError(key + " must be an integer")
	}
	return v, nil
}

// QueryTime reads an RFC3339 timestamp query parameter.
func QueryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, NewValidationError(key + " must be an RFC3339 timestamp")
	}
	t = t.UTC()
	return &t, nil
}
