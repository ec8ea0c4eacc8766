package domain

import (
	"fmt"
	"strconv"
)

const choroplethTitle = "Global Annual Surface Temperature Change"

// BuildChoropleth builds one map trace per year column of the dataset. Only
// the most recent year is visible, and the slider has one step per year that
// shows exactly that year's trace. A dataset without year columns produces an
// empty figure without a slider.
func BuildChoropleth(wide WideTable) (ChoroplethFigure, error) {
	countryIdx := wide.ColumnIndex(CountryColumn)
	if countryIdx < 0 {
		return ChoroplethFigure{}, &SchemaError{Dataset: wide.Name, Column: CountryColumn, Reason: "required column is missing"}
	}
	isoIdx := wide.ColumnIndex(ISO3Column)
	if isoIdx < 0 {
		return ChoroplethFigure{}, &SchemaError{Dataset: wide.Name, Column: ISO3Column, Reason: "required column is missing"}
	}

	locations := make([]string, len(wide.Rows))
	names := make([]string, len(wide.Rows))
	for r, row := range wide.Rows {
		if len(row) != len(wide.Header) {
			return ChoroplethFigure{}, &SchemaError{
				Dataset: wide.Name,
				Row:     r + 1,
				Reason:  fmt.Sprintf("has %d fields, header has %d", len(row), len(wide.Header)),
			}
		}
		locations[r] = row[isoIdx]
		names[r] = row[countryIdx]
	}

	yearIdx, years := YearColumns(wide.Header)
	fig := ChoroplethFigure{
		Data: make([]ChoroplethTrace, 0, len(years)),
		Layout: ChoroplethLayout{
			Title: Title{Text: choroplethTitle},
			Geo: Geo{
				ShowFrame:      false,
				ShowCoastlines: false,
				Projection:     Projection{Type: "equirectangular"},
			},
		},
	}

	last := len(years) - 1
	for i, col := range yearIdx {
		z := make([]*float64, len(wide.Rows))
		for r, row := range wide.Rows {
			v, err := parseValue(row[col])
			if err != nil {
				return ChoroplethFigure{}, &SchemaError{
					Dataset: wide.Name,
					Column:  wide.Header[col],
					Row:     r + 1,
					Reason:  fmt.Sprintf("invalid temperature change %q", row[col]),
				}
			}
			z[r] = v
		}
		fig.Data = append(fig.Data, ChoroplethTrace{
			Type:           "choropleth",
			Name:           strconv.Itoa(years[i]),
			Locations:      locations,
			Z:              z,
			Text:           names,
			ColorScale:     "Plasma",
			AutoColorScale: false,
			ShowScale:      true,
			Visible:        i == last,
		})
	}

	if len(years) == 0 {
		return fig, nil
	}

	steps := make([]SliderStep, len(years))
	for i, y := range years {
		steps[i] = SliderStep{
			Method: "update",
			Args:   []VisibilityUpdate{{Visible: VisibilityVector(len(years), i)}},
			Label:  strconv.Itoa(y),
		}
	}
	fig.Layout.Sliders = []Slider{{
		Active:       last,
		CurrentValue: CurrentValue{Prefix: "Year: "},
		Pad:          Pad{T: 1},
		Steps:        steps,
	}}
	return fig, nil
}

// VisibilityVector returns n flags with only index i set.
func VisibilityVector(n, i int) []bool {
	v := make([]bool, n)
	if i >= 0 && i < n {
		v[i] = true
	}
	return v
}

// MapYears returns the years of a choropleth figure's traces, in trace order.
func MapYears(fig ChoroplethFigure) []int {
	years := make([]int, 0, len(fig.Data))
	for _, t := range fig.Data {
		if y, err := strconv.Atoi(t.Name); err == nil {
			years = append(years, y)
		}
	}
	return years
}
