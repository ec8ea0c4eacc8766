package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/couchcryptid/temperature-dashboard/internal/dashboard"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"selected": slices.Contains[[]string]}).
	ParseFS(templateFS, "templates/index.html"))

// pageData is rendered into the dashboard page. Options seeds the controls so
// the first chart request matches the initial selection.
type pageData struct {
	Options   dashboard.Options
	Countdown string
	FromYear  string
	ToYear    string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	opts := s.dash.Options()
	data := pageData{
		Options:   opts,
		Countdown: s.dash.Countdown().String(),
		FromYear:  strconv.Itoa(opts.Years[0]),
		ToYear:    strconv.Itoa(opts.Years[1]),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render dashboard page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
