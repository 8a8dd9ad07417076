package views

import "evcharging/frontend/internal/api"

// Bounds is the smallest box containing every marker.
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// Center returns the middle of the box.
func (b Bounds) Center() (lat, lng float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLng + b.MaxLng) / 2
}

// MapView is the marker set for one status filter.
type MapView struct {
	Markers  []api.Station
	Bounds   *Bounds
	Active   int
	Inactive int
}

// NewMapView builds the map for stations already filtered by the server.
// Bounds is nil when there are no markers.
func NewMapView(stations []api.Station) MapView {
	m := MapView{Markers: stations}
	for i, st := range stations {
		switch st.Status {
		case "Active":
			m.Active++
		case "Inactive":
			m.Inactive++
		}

		if i == 0 {
			m.Bounds = &Bounds{MinLat: st.Latitude, MaxLat: st.Latitude, MinLng: st.Longitude, MaxLng: st.Longitude}
			continue
		}
		m.Bounds.MinLat = min(m.Bounds.MinLat, st.Latitude)
		m.Bounds.MaxLat = max(m.Bounds.MaxLat, st.Latitude)
		m.Bounds.MinLng = min(m.Bounds.MinLng, st.Longitude)
		m.Bounds.MaxLng = max(m.Bounds.MaxLng, st.Longitude)
	}
	return m
}
