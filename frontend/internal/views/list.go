package views

import (
	"strings"

	"evcharging/frontend/internal/api"
)

// SearchByName keeps stations whose name contains term, ignoring case.
// The server filters have already been applied to stations.
func SearchByName(stations []api.Station, term string) []api.Station {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return stations
	}

	out := make([]api.Station, 0, len(stations))
	for _, st := range stations {
		if strings.Contains(strings.ToLower(st.Name), term) {
			out = append(out, st)
		}
	}
	return out
}

// Without drops station id, as the list does after a successful delete.
func Without(stations []api.Station, id int64) []api.Station {
	out := make([]api.Station, 0, len(stations))
	for _, st := range stations {
		if st.ID != id {
			out = append(out, st)
		}
	}
	return out
}
