package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"evcharging/frontend/internal/api"
	"evcharging/frontend/internal/views"
)

func (c *Cli) runDashboard(ctx context.Context, _ []string) error {
	stations, err := c.client.ListStations(ctx, api.Filter{})
	if err != nil {
		return err
	}
	d := views.NewDashboard(stations)

	c.io.Println("=== Dashboard ===")
	c.io.Printf("Total stations: %d\n", d.Total)
	c.io.Printf("Active:         %d\n", d.Active)
	c.io.Printf("Inactive:       %d\n", d.Inactive)
	c.io.Printf("Total power:    %s kW\n", formatFloat(d.TotalPowerKW))

	if len(d.Connectors) > 0 {
		c.io.Println()
		c.io.Println("Connectors:")
		for _, cc := range d.Connectors {
			c.io.Printf("  %-8s %3d  %5.1f%%\n", cc.ConnectorType, cc.Count, cc.Share*100)
		}
	}

	c.io.Println()
	c.io.Println("Recent stations:")
	return c.printStations(d.Recent)
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	fs := newFlagSet("list", c.io)
	status := fs.String("status", "", "Active or Inactive")
	connector := fs.String("connector", "", "connector type")
	minPower := fs.String("min", "", "minimum power output in kW")
	maxPower := fs.String("max", "", "maximum power output in kW")
	search := fs.String("search", "", "case-insensitive name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := api.Filter{Status: *status, ConnectorType: *connector}
	var err error
	if filter.MinPower, err = optionalFloat("min", *minPower); err != nil {
		return err
	}
	if filter.MaxPower, err = optionalFloat("max", *maxPower); err != nil {
		return err
	}

	stations, err := c.client.ListStations(ctx, filter)
	if err != nil {
		return err
	}
	return c.printStations(views.SearchByName(stations, *search))
}

func (c *Cli) runMap(ctx context.Context, args []string) error {
	fs := newFlagSet("map", c.io)
	status := fs.String("status", "", "Active or Inactive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stations, err := c.client.ListStations(ctx, api.Filter{Status: *status})
	if err != nil {
		return err
	}
	m := views.NewMapView(stations)

	c.io.Printf("Markers: %d (active %d, inactive %d)\n", len(m.Markers), m.Active, m.Inactive)
	if m.Bounds == nil {
		return nil
	}
	lat, lng := m.Bounds.Center()
	c.io.Printf("Bounds:  [%.4f, %.4f] - [%.4f, %.4f]\n", m.Bounds.MinLat, m.Bounds.MinLng, m.Bounds.MaxLat, m.Bounds.MaxLng)
	c.io.Printf("Center:  %.4f, %.4f\n", lat, lng)

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAT\tLNG\tSTATUS")
	for _, st := range m.Markers {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%s\n", st.ID, st.Name, st.Latitude, st.Longitude, st.Status)
	}
	return tw.Flush()
}

func (c *Cli) runShow(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	st, err := c.client.GetStation(ctx, id)
	if err != nil {
		return err
	}
	c.printStation(st)
	return nil
}

func (c *Cli) runAdd(ctx context.Context, _ []string) error {
	c.io.Println("=== Add Station ===")
	in, err := c.readStation(views.DefaultInput())
	if err != nil {
		return err
	}
	st, err := c.client.CreateStation(ctx, in)
	if err != nil {
		return err
	}
	c.io.Printf("Created station %d\n", st.ID)
	return nil
}

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	current, err := c.client.GetStation(ctx, id)
	if err != nil {
		return err
	}

	c.io.Printf("=== Edit Station %d ===\n", id)
	in, err := c.readStation(current.Input())
	if err != nil {
		return err
	}
	if _, err := c.client.UpdateStation(ctx, id, in); err != nil {
		return err
	}
	c.io.Printf("Updated station %d\n", id)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete", c.io)
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	if !*yes {
		answer, err := c.io.ReadInput(fmt.Sprintf("Delete station %d? [y/N]: ", id))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			c.io.Println("Cancelled")
			return nil
		}
	}

	msg, err := c.client.DeleteStation(ctx, id)
	if err != nil {
		return err
	}
	c.io.Println(msg)
	return nil
}

func (c *Cli) runWatch(ctx context.Context, _ []string) error {
	c.io.Println("Watching station changes, press Ctrl+C to stop")
	err := c.client.SubscribeEvents(ctx, func(ev api.Event) {
		if ev.Station != nil {
			c.io.Printf("%s #%d %s (%s, %s kW, %s)\n", ev.Type, ev.StationID, ev.Station.Name,
				ev.Station.Status, formatFloat(ev.Station.PowerOutput), ev.Station.ConnectorType)
			return
		}
		c.io.Printf("%s #%d\n", ev.Type, ev.StationID)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readStation prompts for every field, keeping def where the answer is empty,
// and rejects the result with all form errors at once.
func (c *Cli) readStation(def api.StationInput) (api.StationInput, error) {
	in := def
	var err error

	if in.Name, err = c.prompt("Name", def.Name); err != nil {
		return in, err
	}
	if in.Latitude, err = c.promptFloat("Latitude", def.Latitude); err != nil {
		return in, err
	}
	if in.Longitude, err = c.promptFloat("Longitude", def.Longitude); err != nil {
		return in, err
	}
	if in.Status, err = c.prompt("Status ("+strings.Join(views.Statuses, "/")+")", def.Status); err != nil {
		return in, err
	}
	if in.PowerOutput, err = c.promptFloat("Power output (kW)", def.PowerOutput); err != nil {
		return in, err
	}
	if in.ConnectorType, err = c.prompt("Connector ("+strings.Join(views.ConnectorTypes, "/")+")", def.ConnectorType); err != nil {
		return in, err
	}

	if errs := views.ValidateInput(in); len(errs) > 0 {
		return in, formErrors(errs)
	}
	return in, nil
}

func (c *Cli) prompt(label, def string) (string, error) {
	p := label + ": "
	if def != "" {
		p = fmt.Sprintf("%s [%s]: ", label, def)
	}
	v, err := c.io.ReadInput(p)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (c *Cli) promptFloat(label string, def float64) (float64, error) {
	v, err := c.prompt(label, formatFloat(def))
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return f, nil
}

func (c *Cli) printStations(stations []api.Station) error {
	if len(stations) == 0 {
		c.io.Println("No stations found.")
		return nil
	}
	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPOWER (kW)\tCONNECTOR\tLOCATION")
	for _, st := range stations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.4f, %.4f\n",
			st.ID, st.Name, st.Status, formatFloat(st.PowerOutput), st.ConnectorType, st.Latitude, st.Longitude)
	}
	return tw.Flush()
}

func (c *Cli) printStation(st *api.Station) {
	c.io.Printf("ID:         %d\n", st.ID)
	c.io.Printf("Name:       %s\n", st.Name)
	c.io.Printf("Status:     %s\n", st.Status)
	c.io.Printf("Power:      %s kW\n", formatFloat(st.PowerOutput))
	c.io.Printf("Connector:  %s\n", st.ConnectorType)
	c.io.Printf("Location:   %.6f, %.6f\n", st.Latitude, st.Longitude)
	if !st.CreatedAt.IsZero() {
		c.io.Printf("Created:    %s\n", st.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func optionalFloat(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("-%s must be a number", name)
	}
	return &f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formErrors(errs views.FormErrors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, errs[field])
	}
	return errors.New(strings.Join(msgs, "; "))
}
