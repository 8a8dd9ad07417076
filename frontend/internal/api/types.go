package api

import (
	"fmt"
	"net/http"
	"time"
)

// Station is the read shape returned by the API.
type Station struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Status        string    `json:"status"`
	PowerOutput   float64   `json:"power_output"`
	ConnectorType string    `json:"connector_type"`
	CreatedAt     time.Time `json:"created_at"`
}

// StationInput is the write shape. Its casing differs from Station on purpose:
// the server reads powerOutput and connectorType.
type StationInput struct {
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Status        string  `json:"status"`
	PowerOutput   float64 `json:"powerOutput"`
	ConnectorType string  `json:"connectorType"`
}

// Input converts a read station into a write payload for editing.
func (s Station) Input() StationInput {
	return StationInput{
		Name:          s.Name,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
		Status:        s.Status,
		PowerOutput:   s.PowerOutput,
		ConnectorType: s.ConnectorType,
	}
}

// Filter holds the server-side listing filters. Zero values are omitted.
type Filter struct {
	Status        string
	ConnectorType string
	MinPower      *float64
	MaxPower      *float64
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Event is one message of the station change feed.
type Event struct {
	Type      string   `json:"type"`
	StationID int64    `json:"station_id"`
	Station   *Station `json:"station,omitempty"`
}

// Error is a non-2xx answer. Message carries the server's "message" field.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}
