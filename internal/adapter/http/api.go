package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

const (
	maxBodyBytes = 1 << 20
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// barChartRequest is the POST body of /api/bar-chart. Countries is left
// untyped so that malformed selections fall back to the default country
// instead of failing the request.
type barChartRequest struct {
	Countries any   `json:"countries"`
	Years     []int `json:"years"`
}

type countdownResponse struct {
	Text string `json:"text"`
	domain.CountdownState
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.Options())
}

func (s *Server) handleBarChartQuery(w http.ResponseWriter, r *http.Request) {
	state, err := s.queryState(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeBarChart(w, state)
}

func (s *Server) handleBarChartBody(w http.ResponseWriter, r *http.Request) {
	var req barChartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var years *domain.YearRange
	switch len(req.Years) {
	case 0:
	case 2:
		years = &domain.YearRange{From: req.Years[0], To: req.Years[1]}
	default:
		writeError(w, http.StatusBadRequest, errors.New("years must be a [from, to] pair"))
		return
	}
	s.writeBarChart(w, s.dash.Selection(req.Countries, years))
}

func (s *Server) writeBarChart(w http.ResponseWriter, state domain.FilterState) {
	s.metrics.ChartRequests.WithLabelValues("bar").Inc()
	timer := prometheus.NewTimer(s.metrics.ChartRenderDuration.WithLabelValues("bar"))
	fig := s.dash.BarChart(state)
	timer.ObserveDuration()

	if fig.Empty {
		s.metrics.EmptyFilterResults.Inc()
	}
	sharedobs.WriteJSON(w, http.StatusOK, fig)
}

func (s *Server) handleBarChartPNG(w http.ResponseWriter, r *http.Request) {
	state, err := s.queryState(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.ChartRequests.WithLabelValues("bar_png").Inc()
	timer := prometheus.NewTimer(s.metrics.ChartRenderDuration.WithLabelValues("bar_png"))
	var buf bytes.Buffer
	err = s.renderer.Render(&buf, s.dash.Series(state))
	timer.ObserveDuration()
	if err != nil {
		s.logger.Error("render bar chart failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render failed"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	state, err := s.queryState(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.ChartRequests.WithLabelValues("export").Inc()
	timer := prometheus.NewTimer(s.metrics.ChartRenderDuration.WithLabelValues("export"))
	var buf bytes.Buffer
	err = s.exporter.Export(&buf, s.dash.Records(state), s.dash.Series(state))
	timer.ObserveDuration()
	if err != nil {
		s.logger.Error("export workbook failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("export failed"))
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="temperature-change.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChoropleth(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ChartRequests.WithLabelValues("choropleth").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.Choropleth())
}

func (s *Server) handleCountdown(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ChartRequests.WithLabelValues("countdown").Inc()
	sharedobs.WriteJSON(w, http.StatusOK, newCountdownResponse(s.dash.Countdown()))
}

func newCountdownResponse(state domain.CountdownState) countdownResponse {
	return countdownResponse{Text: state.String(), CountdownState: state}
}

// queryState reads repeated "country" parameters and optional integer
// "from"/"to" bounds. Missing bounds default to the full year range.
func (s *Server) queryState(q url.Values) (domain.FilterState, error) {
	var countries any
	if cs := q["country"]; len(cs) > 0 {
		countries = cs
	}
	state := s.dash.Selection(countries, nil)

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"from", &state.Years.From},
		{"to", &state.Years.To},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.FilterState{}, fmt.Errorf("invalid %s year %q", p.name, v)
		}
		*p.dst = n
	}
	return state, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
