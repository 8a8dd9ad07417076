package handlers

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"evcharging/backend/services/stations-api/internal/models"
	"evcharging/backend/services/stations-api/internal/service"
)

// stationRequest is the write payload. Pointers tell an absent field from a
// zero value, so a station on the equator is accepted.
type stationRequest struct {
	Name          *string  `json:"name"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Status        *string  `json:"status"`
	PowerOutput   *float64 `json:"powerOutput"`
	ConnectorType *string  `json:"connectorType"`
}

// input checks presence first, then ranges.
func (req stationRequest) input() (models.StationInput, error) {
	switch {
	case req.Name == nil || strings.TrimSpace(*req.Name) == "":
		return models.StationInput{}, &service.ValidationError{Field: "name", Reason: service.ReasonRequired}
	case req.Latitude == nil:
		return models.StationInput{}, &service.ValidationError{Field: "latitude", Reason: service.ReasonRequired}
	case req.Longitude == nil:
		return models.StationInput{}, &service.ValidationError{Field: "longitude", Reason: service.ReasonRequired}
	case req.Status == nil || *req.Status == "":
		return models.StationInput{}, &service.ValidationError{Field: "status", Reason: service.ReasonRequired}
	case req.PowerOutput == nil:
		return models.StationInput{}, &service.ValidationError{Field: "powerOutput", Reason: service.ReasonRequired}
	case req.ConnectorType == nil || strings.TrimSpace(*req.ConnectorType) == "":
		return models.StationInput{}, &service.ValidationError{Field: "connectorType", Reason: service.ReasonRequired}
	}

	in := models.StationInput{
		Name:          strings.TrimSpace(*req.Name),
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Status:        models.StationStatus(*req.Status),
		PowerOutput:   *req.PowerOutput,
		ConnectorType: strings.TrimSpace(*req.ConnectorType),
	}

	switch {
	case in.Latitude < -90 || in.Latitude > 90:
		return in, &service.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	case in.Longitude < -180 || in.Longitude > 180:
		return in, &service.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	case !in.Status.Valid():
		return in, &service.ValidationError{Field: "status", Reason: "must be Active or Inactive"}
	case in.PowerOutput <= 0:
		return in, &service.ValidationError{Field: "powerOutput", Reason: "must be positive"}
	case utf8.RuneCountInString(in.Name) > models.MaxStationNameLength:
		return in, &service.ValidationError{Field: "name", Reason: "is too long"}
	case utf8.RuneCountInString(in.ConnectorType) > models.MaxConnectorTypeLength:
		return in, &service.ValidationError{Field: "connectorType", Reason: "is too long"}
	}
	return in, nil
}

// parseFilter reads status, connectorType, minPower and maxPower. Empty
// parameters impose no constraint. Status and connector are matched as given,
// so an unknown status yields an empty list.
func parseFilter(q url.Values) (models.StationFilter, error) {
	var f models.StationFilter

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		status := models.StationStatus(v)
		f.Status = &status
	}
	if v := strings.TrimSpace(q.Get("connectorType")); v != "" {
		f.ConnectorType = &v
	}

	var err error
	if f.MinPower, err = parsePower(q, "minPower"); err != nil {
		return f, err
	}
	if f.MaxPower, err = parsePower(q, "maxPower"); err != nil {
		return f, err
	}
	return f, nil
}

func parsePower(q url.Values, key string) (*float64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(p) {
		return nil, &service.ValidationError{Field: key, Reason: "must be a number"}
	}
	return &p, nil
}
