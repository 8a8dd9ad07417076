package views

import (
	"sort"

	"evcharging/frontend/internal/api"
)

// RecentLimit is how many stations the dashboard lists.
const RecentLimit = 5

// ConnectorCount is one row of the connector breakdown.
type ConnectorCount struct {
	ConnectorType string
	Count         int
	Share         float64
}

// Dashboard summarises the station fleet.
type Dashboard struct {
	Total        int
	Active       int
	Inactive     int
	TotalPowerKW float64
	Connectors   []ConnectorCount
	Recent       []api.Station
}

// NewDashboard computes the dashboard from an unfiltered listing.
func NewDashboard(stations []api.Station) Dashboard {
	d := Dashboard{Total: len(stations)}

	counts := make(map[string]int)
	for _, st := range stations {
		switch st.Status {
		case "Active":
			d.Active++
		case "Inactive":
			d.Inactive++
		}
		d.TotalPowerKW += st.PowerOutput
		counts[st.ConnectorType]++
	}

	for connector, n := range counts {
		d.Connectors = append(d.Connectors, ConnectorCount{
			ConnectorType: connector,
			Count:         n,
			Share:         float64(n) / float64(d.Total),
		})
	}
	sort.Slice(d.Connectors, func(i, j int) bool {
		if d.Connectors[i].Count != d.Connectors[j].Count {
			return d.Connectors[i].Count > d.Connectors[j].Count
		}
		return d.Connectors[i].ConnectorType < d.Connectors[j].ConnectorType
	})

	n := min(RecentLimit, len(stations))
	d.Recent = append([]api.Station(nil), stations[:n]...)
	return d
}
