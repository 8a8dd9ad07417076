package models

import "time"

// StationStatus is the operational state of a charging station.
type StationStatus string

const (
	StationStatusActive   StationStatus = "Active"
	StationStatusInactive StationStatus = "Inactive"
)

// Valid reports whether s is one of the two accepted values.
func (s StationStatus) Valid() bool {
	return s == StationStatusActive || s == StationStatusInactive
}

// Column limits of the charging_stations table, in characters.
const (
	MaxStationNameLength   = 255
	MaxConnectorTypeLength = 50
)

// Station is a charging point record as read from the store.
// The JSON shape is the read payload: snake_case power_output and connector_type.
type Station struct {
	ID            int64         `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Latitude      float64       `db:"latitude" json:"latitude"`
	Longitude     float64       `db:"longitude" json:"longitude"`
	Status        StationStatus `db:"status" json:"status"`
	PowerOutput   float64       `db:"power_output" json:"power_output"`
	ConnectorType string        `db:"connector_type" json:"connector_type"`
	CreatedBy     *int64        `db:"created_by" json:"-"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// StationInput carries the editable station fields. Create and update both
// replace all of them.
type StationInput struct {
	Name          string
	Latitude      float64
	Longitude     float64
	Status        StationStatus
	PowerOutput   float64
	ConnectorType string
}

// StationFilter narrows a listing. Nil fields impose no constraint; set
// fields combine with AND.
type StationFilter struct {
	Status        *StationStatus
	ConnectorType *string
	MinPower      *float64
	MaxPower      *float64
}
