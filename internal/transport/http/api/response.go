package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/sentinel"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind sentinel.Kind) int {
	switch kind {
	case sentinel.KindNotFound:
		return http.StatusNotFound
	case sentinel.KindInvalidInput:
		return http.StatusBadRequest
	case sentinel.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case sentinel.KindInvalidState, sentinel.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FailError writes err as an envelope. Domain errors keep their message and
// kind; anything else is logged and reported as a generic internal error.
func FailError(w http.ResponseWriter, err error, requestID string) {
	kind := sentinel.KindOf(err)
	status := StatusFor(kind)
	if kind == sentinel.KindInternal {
		slog.Error("request failed", "requestId", requestID, "err", err)
		Fail(w, status, string(kind), "internal error", requestID)
		return
	}

	var balanceErr *leave.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		FailWithDetails(w, status, string(kind), err.Error(), map[string]int{
			"available": balanceErr.Available,
			"requested": balanceErr.Requested,
		}, requestID)
		return
	}
	var stateErr *leave.InvalidStateError
	if errors.As(err, &stateErr) {
		FailWithDetails(w, status, string(kind), err.Error(), map[string]string{
			"requestId":     stateErr.RequestID,
			"currentStatus": string(stateErr.Current),
		}, requestID)
		return
	}
	Fail(w, status, string(kind), err.Error(), requestID)
}
