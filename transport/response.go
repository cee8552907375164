package transport

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/threeofkind/storefront/constant"
	"github.com/threeofkind/storefront/utils/errors"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type notificationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func writeError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stderrors.As(err, &ce) {
		ce = errors.SetCustomError(constant.ErrInternal)
	}
	writeJSON(w, ce.ErrorHTTPCode(), errorResponse{
		Success: false,
		Code:    ce.ErrorCode(),
		Message: ce.Error(),
	})
}

// writeNotificationError keeps the gateway's expected body shape; the status code is what
// drives its retry.
func writeNotificationError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stderrors.As(err, &ce) {
		ce = errors.SetCustomError(constant.ErrInternal)
	}
	writeJSON(w, ce.ErrorHTTPCode(), notificationResponse{Status: "error", Message: ce.Error()})
}
