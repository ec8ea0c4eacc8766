package domain

import "sort"

const (
	barChartTitle = "Climate Change per Country and Year"
	// NoDataText is shown in place of bars when the filter matches nothing.
	NoDataText = "No data for the selected countries and years"
)

// BarSeries is one country's bars, years ascending.
type BarSeries struct {
	Country string
	Years   []int
	Values  []float64
}

// Aggregate groups records into one series per country, ordered by first
// appearance. Duplicate (country, year) values are summed and nil values are
// skipped; countries without any value produce no series.
func Aggregate(records []TidyRecord) []BarSeries {
	var order []string
	sums := make(map[string]map[int]float64)
	for _, r := range records {
		byYear, ok := sums[r.Country]
		if !ok {
			byYear = make(map[int]float64)
			sums[r.Country] = byYear
			order = append(order, r.Country)
		}
		if r.TemperatureChange == nil {
			continue
		}
		byYear[r.Year] += *r.TemperatureChange
	}

	series := make([]BarSeries, 0, len(order))
	for _, country := range order {
		byYear := sums[country]
		if len(byYear) == 0 {
			continue
		}
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)
		values := make([]float64, len(years))
		for i, y := range years {
			values[i] = byYear[y]
		}
		series = append(series, BarSeries{Country: country, Years: years, Values: values})
	}
	return series
}

// BuildBarChart filters the table and renders a grouped bar chart with one
// colored trace per country. An empty result yields a figure with no traces,
// a no-data annotation and Empty set.
func BuildBarChart(table TidyTable, state FilterState) BarFigure {
	series := Aggregate(Filter(table, state))

	fig := BarFigure{
		Data:   make([]BarTrace, 0, len(series)),
		Layout: barLayout(),
	}
	for i, s := range series {
		fig.Data = append(fig.Data, BarTrace{
			Type:   "bar",
			Name:   s.Country,
			X:      s.Years,
			Y:      s.Values,
			Marker: Marker{Color: SeriesColor(i)},
		})
	}

	if len(fig.Data) == 0 {
		fig.Empty = true
		fig.Layout.Annotations = []Annotation{{
			Text: NoDataText,
			XRef: "paper",
			YRef: "paper",
			X:    0.5,
			Y:    0.5,
		}}
	}
	return fig
}

func barLayout() BarLayout {
	tick0 := 0.0
	return BarLayout{
		Title:   Title{Text: barChartTitle},
		BarMode: "group",
		XAxis: Axis{
			Title:     Title{Text: "Years"},
			TickMode:  "linear",
			Tick0:     &tick0,
			DTick:     10,
			TickAngle: -45,
		},
		YAxis: Axis{
			Title:    Title{Text: "Temperature Change °C"},
			TickMode: "auto",
			NTicks:   10,
		},
		Legend: Legend{Title: Title{Text: "Countries"}},
	}
}
