package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

const tickInterval = time.Second

// handleCountdownStream pushes a "countdown" server-sent event immediately and
// then once per tick until the client disconnects.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut the stream.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Debug("clear write deadline", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.metrics.CountdownStreams.Inc()
	defer s.metrics.CountdownStreams.Dec()

	send := func() error {
		data, err := json.Marshal(newCountdownResponse(s.dash.Countdown()))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: countdown\ndata: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := send(); err != nil {
		s.logger.Debug("countdown stream closed", "error", err)
		return
	}

	ticker := domain.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closing:
			return
		case <-ticker.Chan():
			if err := send(); err != nil {
				s.logger.Debug("countdown stream closed", "error", err)
				return
			}
		}
	}
}
