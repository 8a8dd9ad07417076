package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/http/middleware"
	"evcharging/backend/services/stations-api/internal/repository"
	"evcharging/backend/services/stations-api/internal/service"
)

const (
	msgStationNotFound = "Charging station not found"
	msgInvalidStation  = "Invalid station data"
)

// StationsHandlers serves /api/stations.
type StationsHandlers struct {
	stations *service.StationService
	logger   *zap.Logger
	errors   errorWriter
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(stations *service.StationService, logger *zap.Logger, exposeErrorDetails bool) *StationsHandlers {
	return &StationsHandlers{
		stations: stations,
		logger:   logger,
		errors:   errorWriter{logger: logger, exposeDetails: exposeErrorDetails},
	}
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter")
		return
	}

	stations, err := h.stations.List(r.Context(), filter)
	if err != nil {
		h.errors.internal(w, r, "list stations failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgStationNotFound)
		return
	}

	station, err := h.stations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, msgStationNotFound)
			return
		}
		h.errors.internal(w, r, "get station failed", err)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	station, err := h.stations.Create(r.Context(), input, userID)
	if err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			writeError(w, http.StatusBadRequest, msgInvalidStation)
			return
		}
		h.errors.internal(w, r, "create station failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, station)
}

// Update handles PUT /api/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req stationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgStationNotFound)
		return
	}

	station, err := h.stations.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStationNotFound):
			writeError(w, http.StatusNotFound, msgStationNotFound)
		case errors.Is(err, repository.ErrConstraintViolation):
			writeError(w, http.StatusBadRequest, msgInvalidStation)
		default:
			h.errors.internal(w, r, "update station failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgStationNotFound)
		return
	}

	if _, err := h.stations.Get(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, msgStationNotFound)
			return
		}
		h.errors.internal(w, r, "get station failed", err)
		return
	}

	removed, err := h.stations.Delete(r.Context(), id)
	if err != nil {
		h.errors.internal(w, r, "delete station failed", err)
		return
	}
	if !removed {
		h.logger.Warn("station vanished before delete", zap.Int64("station_id", id))
		writeError(w, http.StatusInternalServerError, "Failed to delete charging station")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Charging station deleted successfully"})
}

func (h *StationsHandlers) writeValidationError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) && verr.IsMissing() {
		writeError(w, http.StatusBadRequest, msgFieldsMissing)
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidStation)
}
