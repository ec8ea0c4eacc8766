package domain

// Plotly figure specifications. Field names follow the plotly.js schema so the
// dashboard page can pass a figure straight to Plotly.react.

// Title is a plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title     Title    `json:"title"`
	TickMode  string   `json:"tickmode,omitempty"`
	Tick0     *float64 `json:"tick0,omitempty"`
	DTick     float64  `json:"dtick,omitempty"`
	TickAngle int      `json:"tickangle,omitempty"`
	NTicks    int      `json:"nticks,omitempty"`
}

// Legend configures the trace legend.
type Legend struct {
	Title Title `json:"title"`
}

// Annotation is free text placed on the plot area.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
}

// Marker sets the fill color of a bar trace.
type Marker struct {
	Color string `json:"color"`
}

// BarTrace is one country's bars.
type BarTrace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name"`
	X      []int     `json:"x"`
	Y      []float64 `json:"y"`
	Marker Marker    `json:"marker"`
}

// BarLayout is the layout of the bar chart.
type BarLayout struct {
	Title       Title        `json:"title"`
	BarMode     string       `json:"barmode"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Legend      Legend       `json:"legend"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// BarFigure is a complete bar chart. Empty marks the no-data state.
type BarFigure struct {
	Data   []BarTrace `json:"data"`
	Layout BarLayout  `json:"layout"`
	Empty  bool       `json:"empty"`
}

// ChoroplethTrace is one year's map layer.
type ChoroplethTrace struct {
	Type           string     `json:"type"`
	Name           string     `json:"name"`
	Locations      []string   `json:"locations"`
	Z              []*float64 `json:"z"`
	Text           []string   `json:"text"`
	ColorScale     string     `json:"colorscale"`
	AutoColorScale bool       `json:"autocolorscale"`
	ShowScale      bool       `json:"showscale"`
	Visible        bool       `json:"visible"`
}

// VisibilityUpdate is the argument of a slider step: the full visibility
// vector, one entry per trace.
type VisibilityUpdate struct {
	Visible []bool `json:"visible"`
}

// SliderStep selects one map layer.
type SliderStep struct {
	Method string             `json:"method"`
	Args   []VisibilityUpdate `json:"args"`
	Label  string             `json:"label"`
}

// CurrentValue labels the selected slider step.
type CurrentValue struct {
	Prefix string `json:"prefix"`
}

// Pad is slider padding in pixels.
type Pad struct {
	T int `json:"t"`
}

// Slider is the year selector of the map.
type Slider struct {
	Active       int          `json:"active"`
	CurrentValue CurrentValue `json:"currentvalue"`
	Pad          Pad          `json:"pad"`
	Steps        []SliderStep `json:"steps"`
}

// Projection is the map projection.
type Projection struct {
	Type string `json:"type"`
}

// Geo configures the map area.
type Geo struct {
	ShowFrame      bool       `json:"showframe"`
	ShowCoastlines bool       `json:"showcoastlines"`
	Projection     Projection `json:"projection"`
}

// ChoroplethLayout is the layout of the map.
type ChoroplethLayout struct {
	Title   Title    `json:"title"`
	Geo     Geo      `json:"geo"`
	Sliders []Slider `json:"sliders,omitempty"`
}

// ChoroplethFigure is the complete map with one trace per year.
type ChoroplethFigure struct {
	Data   []ChoroplethTrace `json:"data"`
	Layout ChoroplethLayout  `json:"layout"`
}

// palette is the plotly default qualitative color sequence.
var palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// SeriesColor returns the color of the i-th trace.
func SeriesColor(i int) string {
	return palette[i%len(palette)]
}
