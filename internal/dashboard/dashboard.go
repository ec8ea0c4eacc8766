// Package dashboard answers the questions the dashboard page asks: which
// controls to offer, which bar chart to draw for a selection, the map figure
// and the countdown text. It reads a Snapshot that is never mutated, so one
// Dashboard is shared by all requests.
package dashboard

import (
	"time"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
	"github.com/couchcryptid/temperature-dashboard/internal/pipeline"
)

// Options describes the initial state of the dashboard controls.
type Options struct {
	Countries      []string `json:"countries"`
	Years          [2]int   `json:"years"`
	DefaultCountry string   `json:"default_country"`
	Selected       []string `json:"selected"`
	MapYears       []int    `json:"map_years"`
	Target         string   `json:"countdown_target"`
}

// Dashboard serves figures from a built Snapshot.
type Dashboard struct {
	snap           *pipeline.Snapshot
	countdown      domain.Countdown
	defaultCountry string
}

// New creates a Dashboard. An empty defaultCountry falls back to
// domain.DefaultCountry.
func New(snap *pipeline.Snapshot, countdown domain.Countdown, defaultCountry string) *Dashboard {
	if defaultCountry == "" {
		defaultCountry = domain.DefaultCountry
	}
	return &Dashboard{snap: snap, countdown: countdown, defaultCountry: defaultCountry}
}

// Options returns the dropdown options, slider bounds and initial selection.
func (d *Dashboard) Options() Options {
	full := d.snap.Tidy.FullRange()
	return Options{
		Countries:      d.snap.Tidy.Countries(),
		Years:          [2]int{full.From, full.To},
		DefaultCountry: d.defaultCountry,
		Selected:       []string{d.defaultCountry},
		MapYears:       append([]int{}, d.snap.MapYears...),
		Target:         d.countdown.Target().Format(time.RFC3339),
	}
}

// Selection normalizes raw control values into a FilterState. A nil years
// range selects every year in the table.
func (d *Dashboard) Selection(countries any, years *domain.YearRange) domain.FilterState {
	state := domain.FilterState{
		Countries: domain.NormalizeCountries(countries, d.defaultCountry),
		Years:     d.snap.Tidy.FullRange(),
	}
	if years != nil {
		state.Years = *years
	}
	return state
}

// BarChart renders the grouped bar chart for the selection.
func (d *Dashboard) BarChart(state domain.FilterState) domain.BarFigure {
	return domain.BuildBarChart(d.snap.Tidy, state)
}

// Series returns the per-country bar values for the selection.
func (d *Dashboard) Series(state domain.FilterState) []domain.BarSeries {
	return domain.Aggregate(domain.Filter(d.snap.Tidy, state))
}

// Records returns the tidy rows matching the selection, missing values included.
func (d *Dashboard) Records(state domain.FilterState) []domain.TidyRecord {
	return domain.Filter(d.snap.Tidy, state)
}

// Choropleth returns the prebuilt map figure.
func (d *Dashboard) Choropleth() domain.ChoroplethFigure {
	return d.snap.Map
}

// Countdown returns the time left until the milestone at the current clock time.
func (d *Dashboard) Countdown() domain.CountdownState {
	return d.countdown.Now()
}
