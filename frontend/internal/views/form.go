package views

import (
	"math"
	"slices"
	"strings"

	"evcharging/frontend/internal/api"
)

// ConnectorTypes are the choices the form offers.
var ConnectorTypes = []string{"CCS", "CHAdeMO", "Type 2", "Tesla"}

// Statuses are the accepted station states.
var Statuses = []string{"Active", "Inactive"}

// DefaultInput pre-fills the add form.
func DefaultInput() api.StationInput {
	return api.StationInput{
		Status:        "Active",
		PowerOutput:   50,
		ConnectorType: "CCS",
	}
}

// FormErrors maps a field name to its message. Empty means valid.
type FormErrors map[string]string

// ValidateInput mirrors the form checks done before submitting.
func ValidateInput(in api.StationInput) FormErrors {
	errs := FormErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if math.IsNaN(in.Latitude) || in.Latitude < -90 || in.Latitude > 90 {
		errs["latitude"] = "Latitude must be between -90 and 90"
	}
	if math.IsNaN(in.Longitude) || in.Longitude < -180 || in.Longitude > 180 {
		errs["longitude"] = "Longitude must be between -180 and 180"
	}
	if math.IsNaN(in.PowerOutput) || in.PowerOutput <= 0 {
		errs["powerOutput"] = "Power output must be a positive number"
	}
	if !slices.Contains(Statuses, in.Status) {
		errs["status"] = "Status must be Active or Inactive"
	}
	if !slices.Contains(ConnectorTypes, in.ConnectorType) {
		errs["connectorType"] = "Connector type must be one of " + strings.Join(ConnectorTypes, ", ")
	}
	return errs
}
