package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/http/middleware"
)

const (
	msgServerError   = "Server error"
	msgFieldsMissing = "All fields are required"
)

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// errorWriter answers 500s, optionally echoing the cause in an "error" field.
type errorWriter struct {
	logger        *zap.Logger
	exposeDetails bool
}

func (e errorWriter) internal(w http.ResponseWriter, r *http.Request, message string, err error) {
	e.logger.Error(message,
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	resp := messageResponse{Message: msgServerError}
	if e.exposeDetails && err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// maxBodyBytes caps request bodies; every payload of the API is a few hundred bytes.
const maxBodyBytes = 1 << 20

// decodeJSON reads the body into dst. On failure it answers 413 for an
// oversized body and 400 otherwise, and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "Invalid JSON body")
	return false
}

// pathID parses the {id} wildcard. ok is false for anything but a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
