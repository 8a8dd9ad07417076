package models

// StationEventType names the kind of change a StationEvent reports.
type StationEventType string

const (
	StationCreated StationEventType = "created"
	StationUpdated StationEventType = "updated"
	StationDeleted StationEventType = "deleted"
)

// StationEvent is pushed to feed subscribers after a successful write.
// Station is nil for deletions.
type StationEvent struct {
	Type      StationEventType `json:"type"`
	StationID int64            `json:"station_id"`
	Station   *Station         `json:"station,omitempty"`
}
