package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-dashboard/internal/dashboard"
	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

func decodeFigure(t *testing.T, rec *httptest.ResponseRecorder) domain.BarFigure {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var fig domain.BarFigure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	return fig
}

func traceNames(fig domain.BarFigure) []string {
	names := make([]string, len(fig.Data))
	for i, tr := range fig.Data {
		names[i] = tr.Name
	}
	return names
}

func TestOptions(t *testing.T) {
	rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var opts dashboard.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Testland", "United States"}, opts.Countries)
	assert.Equal(t, [2]int{1999, 2000}, opts.Years)
	assert.Equal(t, "United States", opts.DefaultCountry)
	assert.Equal(t, []int{2000}, opts.MapYears)
}

func TestBarChartQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		traces []string
		years  []int
		empty  bool
	}{
		{name: "default selection", query: "", traces: []string{"United States"}, years: []int{1999, 2000}},
		{name: "explicit countries", query: "?country=Testland&country=United+States", traces: []string{"Testland", "United States"}, years: []int{1999, 2000}},
		{name: "from bound", query: "?country=Testland&from=2000", traces: []string{"Testland"}, years: []int{2000}},
		{name: "to bound", query: "?country=Testland&to=1999", traces: []string{"Testland"}, years: []int{1999}},
		{name: "out of range", query: "?from=1800&to=1850", traces: []string{}, empty: true},
		{name: "unknown country", query: "?country=Atlantis", traces: []string{}, empty: true},
		{name: "blank country recovers default", query: "?country=", traces: []string{"United States"}, years: []int{1999, 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/bar-chart"+tt.query, nil))
			fig := decodeFigure(t, rec)

			assert.Equal(t, tt.traces, traceNames(fig))
			assert.Equal(t, tt.empty, fig.Empty)
			if len(fig.Data) > 0 {
				assert.Equal(t, tt.years, fig.Data[0].X)
			}
		})
	}
}

func TestBarChartQuery_InvalidYear(t *testing.T) {
	for _, q := range []string{"?from=abc", "?to=2000.5"} {
		rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/bar-chart"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "invalid")
	}
}

func TestBarChartBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		traces []string
	}{
		{name: "list of countries", body: `{"countries":["Testland"],"years":[1999,2000]}`, traces: []string{"Testland"}},
		{name: "empty list recovers default", body: `{"countries":[],"years":[1999,2000]}`, traces: []string{"United States"}},
		{name: "bare string recovers default", body: `{"countries":"Testland"}`, traces: []string{"United States"}},
		{name: "non-string element recovers default", body: `{"countries":["Testland",7]}`, traces: []string{"United States"}},
		{name: "null recovers default", body: `{"countries":null}`, traces: []string{"United States"}},
		{name: "blank names recover default", body: `{"countries":[""]}`, traces: []string{"United States"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bar-chart", strings.NewReader(tt.body))
			fig := decodeFigure(t, newTestServer(nil).do(req))
			assert.Equal(t, tt.traces, traceNames(fig))
		})
	}
}

func TestBarChartBody_BadRequests(t *testing.T) {
	for _, body := range []string{`{`, `{"years":[1999]}`, `{"years":[1999,2000,2001]}`, `{"years":["a","b"]}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/bar-chart", strings.NewReader(body))
		rec := newTestServer(nil).do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestBarChart_Metrics(t *testing.T) {
	ts := newTestServer(nil)
	ts.do(httptest.NewRequest(http.MethodGet, "/api/bar-chart", nil))
	ts.do(httptest.NewRequest(http.MethodGet, "/api/bar-chart?from=1800&to=1801", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(ts.metrics.ChartRequests.WithLabelValues("bar")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.EmptyFilterResults), 0)
}

func TestBarChartPNG(t *testing.T) {
	ts := newTestServer(nil)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/bar-chart.png?country=Testland&from=2000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rec.Body.String())
	require.Len(t, ts.renderer.series, 1)
	assert.Equal(t, []int{2000}, ts.renderer.series[0].Years)
}

func TestBarChartPNG_RenderError(t *testing.T) {
	ts := newTestServer(nil)
	ts.renderer.err = errBoom
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/bar-chart.png", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestExport(t *testing.T) {
	ts := newTestServer(nil)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/export.xlsx?country=Testland", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "temperature-change.xlsx")
	assert.Len(t, ts.exporter.records, 2)
}

func TestExport_BadYear(t *testing.T) {
	rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/export.xlsx?from=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChoropleth(t *testing.T) {
	rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/choropleth", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fig domain.ChoroplethFigure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "2000", fig.Data[0].Name)
}

func TestCountdown(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(testTarget.Add(-400 * 24 * time.Hour)))
	t.Cleanup(func() { domain.SetClock(nil) })

	rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/countdown", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Text    string `json:"text"`
		Years   int    `json:"years"`
		Days    int    `json:"days"`
		Reached bool   `json:"reached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1 years, 35 days, 00:00:00", body.Text)
	assert.Equal(t, 1, body.Years)
	assert.Equal(t, 35, body.Days)
	assert.False(t, body.Reached)
}

func TestCountdown_Reached(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(testTarget.Add(time.Hour)))
	t.Cleanup(func() { domain.SetClock(nil) })

	rec := newTestServer(nil).do(httptest.NewRequest(http.MethodGet, "/api/countdown", nil))
	assert.Contains(t, rec.Body.String(), `"text":"Event reached"`)
	assert.Contains(t, rec.Body.String(), `"reached":true`)
}
