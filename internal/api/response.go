package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ResponseHandler writes JSON envelopes
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, status int, data any)
	WriteError(w http.ResponseWriter, status int, code, message string)
	HandleError(w http.ResponseWriter, err error)
}

// SuccessEnvelope wraps successful responses
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type responseHandler struct {
	logger *zap.Logger
}

// NewResponseHandler creates a zap-logging ResponseHandler
func NewResponseHandler(logger *zap.Logger) ResponseHandler {
	return &responseHandler{logger: logger}
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(SuccessEnvelope{Success: true, Data: data}); err != nil {
		// Headers are gone; nothing left but logging
		h.logger.Error("Failed to encode success response", zap.Error(err))
	}
}

func (h *responseHandler) WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message}); err != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("code", code))
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		h.logger.Warn("Validation failed", zap.String("error", ve.Message))
		h.WriteError(w, http.StatusBadRequest, "invalid_input", ve.Message)
		return
	}

	h.logger.Error("Unexpected error",
		zap.Error(err),
		zap.String("type", fmt.Sprintf("%T", err)))
	h.WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
