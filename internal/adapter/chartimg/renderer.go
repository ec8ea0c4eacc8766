// Package chartimg renders the grouped bar chart to a PNG image on the server,
// for clients that cannot run the interactive chart.
package chartimg

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

const (
	barChartTitle = "Climate Change per Country and Year"
	groupWidth    = 18.0 // points shared by all bars of one year
)

// Renderer draws bar series as a PNG.
type Renderer struct {
	width, height vg.Length
}

// NewRenderer creates a Renderer producing images of the given size in points.
func NewRenderer(width, height float64) *Renderer {
	return &Renderer{width: vg.Points(width), height: vg.Points(height)}
}

// Render writes a grouped bar chart with one colored bar per country and year.
// Years without a value for a country are drawn as zero-height bars. An empty
// series list produces bare axes titled with the no-data text.
func (r *Renderer) Render(w io.Writer, series []domain.BarSeries) error {
	p := plot.New()
	p.Title.Text = barChartTitle
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Years"
	p.Y.Label.Text = "Temperature Change °C"
	p.Legend.Top = true

	years := unionYears(series)
	if len(years) == 0 {
		p.Title.Text = domain.NoDataText
	} else {
		p.Add(plotter.NewGrid())

		labels := make([]string, len(years))
		for i, y := range years {
			labels[i] = strconv.Itoa(y)
		}
		p.NominalX(labels...)

		barWidth := vg.Points(groupWidth / float64(len(series)))
		for i, s := range series {
			bars, err := plotter.NewBarChart(alignValues(s, years), barWidth)
			if err != nil {
				return fmt.Errorf("bar chart for %s: %w", s.Country, err)
			}
			bars.Color = hexColor(domain.SeriesColor(i))
			bars.LineStyle.Width = vg.Length(0)
			bars.Offset = barWidth * vg.Length(float64(i)-float64(len(series)-1)/2)
			p.Add(bars)
			p.Legend.Add(s.Country, bars)
		}
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func unionYears(series []domain.BarSeries) []int {
	seen := make(map[int]bool)
	var years []int
	for _, s := range series {
		for _, y := range s.Years {
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)
	return years
}

// alignValues places the series values on the shared year axis.
func alignValues(s domain.BarSeries, years []int) plotter.Values {
	byYear := make(map[int]float64, len(s.Years))
	for i, y := range s.Years {
		byYear[y] = s.Values[i]
	}
	out := make(plotter.Values, len(years))
	for i, y := range years {
		out[i] = byYear[y]
	}
	return out
}

// hexColor parses "#rrggbb"; anything else is drawn black.
func hexColor(s string) color.Color {
	var c color.RGBA
	c.A = 0xff
	if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
		return color.Black
	}
	return c
}
