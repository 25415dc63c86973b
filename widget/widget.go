// Package widget defines the user-authored widget configuration model shared
// by the store, the poller, and the HTTP API.
//
// The JSON field names match the persisted snapshot format, so exported
// collections can be re-imported across versions of the dashboard.
package widget

import (
	"fmt"
	"net/url"
	"time"
)

// Type selects how a widget renders its data.
type Type string

const (
	// TypeCard renders selected fields as a key/value card.
	TypeCard Type = "card"

	// TypeTable renders the largest embedded array as rows.
	TypeTable Type = "table"

	// TypeChart renders a time series as a chart.
	TypeChart Type = "chart"
)

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Valid reports whether the type is one of the known render types.
func (t Type) Valid() bool {
	switch t {
	case TypeCard, TypeTable, TypeChart:
		return true
	default:
		return false
	}
}

const (
	// DefaultRefreshInterval is used when a widget has no valid
	// refreshInterval of its own.
	DefaultRefreshInterval = 30 * time.Second

	// minRefreshInterval floors the polling cadence to prevent endpoint abuse.
	minRefreshInterval = 1 * time.Second
)

// Layout holds grid placement hints for a widget. A width of 2 or more
// widens the widget across grid columns.
type Layout struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DataMap records which flattened field paths a widget displays.
//
// SelectedFields is the current format: an ordered, duplicate-free list of
// dotted paths whose order is the display order. Value, Change, and Label
// are the legacy single-field format kept for import compatibility.
type DataMap struct {
	SelectedFields []string `json:"selectedFields,omitempty"`

	// Legacy fields, superseded by SelectedFields.
	Value  string `json:"value,omitempty"`
	Change string `json:"change,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Settings groups per-widget display configuration.
type Settings struct {
	DataMap DataMap `json:"dataMap"`
}

// Widget is one user-configured unit binding an API endpoint, a refresh
// interval, a render type, and a selected set of fields.
//
// The ID is assigned at creation and immutable. Widgets are value types;
// the store owns the canonical collection.
type Widget struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Type            Type     `json:"type"`
	APIEndpoint     string   `json:"apiEndpoint"`
	RefreshInterval int      `json:"refreshInterval,omitempty"`
	Layout          Layout   `json:"layout"`
	Settings        Settings `json:"settings"`
}

// Interval returns the widget's polling cadence as a duration.
//
// A missing or non-positive refreshInterval coerces to
// [DefaultRefreshInterval]; anything below one second is floored to one
// second.
func (w Widget) Interval() time.Duration {
	if w.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	d := time.Duration(w.RefreshInterval) * time.Second
	if d < minRefreshInterval {
		return minRefreshInterval
	}
	return d
}

// SelectedFields returns the ordered field paths the widget displays.
//
// When the current-format list is empty, the legacy value/change/label
// triple is used instead, filtered for presence. The returned slice is a
// copy.
func (w Widget) SelectedFields() []string {
	dm := w.Settings.DataMap
	if len(dm.SelectedFields) > 0 {
		fields := make([]string, len(dm.SelectedFields))
		copy(fields, dm.SelectedFields)
		return fields
	}

	var fields []string
	for _, legacy := range []string{dm.Value, dm.Change, dm.Label} {
		if legacy != "" {
			fields = append(fields, legacy)
		}
	}
	return fields
}

// AddField appends a field path to the selection.
//
// Adding an already-present path is a no-op; the return reports whether the
// selection changed.
func (w *Widget) AddField(path string) bool {
	for _, f := range w.Settings.DataMap.SelectedFields {
		if f == path {
			return false
		}
	}
	w.Settings.DataMap.SelectedFields = append(w.Settings.DataMap.SelectedFields, path)
	return true
}

// RemoveField deletes a field path from the selection, preserving the order
// of the remaining fields. Returns whether the selection changed.
func (w *Widget) RemoveField(path string) bool {
	fields := w.Settings.DataMap.SelectedFields
	for i, f := range fields {
		if f == path {
			w.Settings.DataMap.SelectedFields = append(fields[:i], fields[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks that the widget is well-formed enough to poll and render.
func (w Widget) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("widget id is required")
	}
	if !w.Type.Valid() {
		return fmt.Errorf("widget %s: unknown type %q", w.ID, w.Type)
	}
	if w.APIEndpoint == "" {
		return fmt.Errorf("widget %s: apiEndpoint is required", w.ID)
	}
	u, err := url.Parse(w.APIEndpoint)
	if err != nil {
		return fmt.Errorf("widget %s: invalid apiEndpoint: %w", w.ID, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("widget %s: apiEndpoint scheme must be http or https, got %q", w.ID, u.Scheme)
	}
	return nil
}
