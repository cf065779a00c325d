package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/dashboard"
	"github.com/couchcryptid/thor-dashboard/internal/domain"
)

// errBadRequest marks query parameter problems.
var errBadRequest = errors.New("bad request")

type indexData struct {
	Units       []string
	Statistics  []string
	DateMin     string
	DateMax     string
	DateDefault string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	units, err := s.dash.Units()
	if err != nil {
		s.writeError(w, err)
		return
	}
	data := indexData{
		Units:       units,
		Statistics:  s.dash.Statistics(),
		DateMin:     domain.DatePickerMin.Format(time.DateOnly),
		DateMax:     domain.DatePickerMax.Format(time.DateOnly),
		DateDefault: domain.DatePickerDefault.Format(time.DateOnly),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.writeError(w, fmt.Errorf("render index: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w) //nolint:errcheck // client went away
}

func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Statistics())
}

func (s *Server) handleUnits(w http.ResponseWriter, _ *http.Request) {
	units, err := s.dash.Units()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (s *Server) handleDatasets(w http.ResponseWriter, _ *http.Request) {
	infos, err := s.dash.Datasets()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	date, err := parsePickerDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	spec, err := s.dash.Map(date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleLineChart(w http.ResponseWriter, r *http.Request) {
	unit, statistic := s.unitParam(r), s.statisticParam(r)
	spec, err := s.dash.LineChart(unit, statistic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	spec, err := s.dash.BarChart(s.unitParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleLinePNG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.dash.LinePNG(&buf, s.unitParam(r), s.statisticParam(r)); err != nil {
		s.writeError(w, err)
		return
	}
	writePNG(w, &buf)
}

func (s *Server) handleBarPNG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.dash.BarPNG(&buf, s.unitParam(r)); err != nil {
		s.writeError(w, err)
		return
	}
	writePNG(w, &buf)
}

func (s *Server) unitParam(r *http.Request) string {
	if unit := r.URL.Query().Get("unit"); unit != "" {
		return unit
	}
	return domain.AllUnits
}

func (s *Server) statisticParam(r *http.Request) string {
	if stat := r.URL.Query().Get("statistic"); stat != "" {
		return stat
	}
	return s.dash.Statistics()[0]
}

// parsePickerDate parses an optional YYYY-MM-DD date picker value. Empty means
// no date filter. Values outside the picker domain are rejected.
func parsePickerDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", errBadRequest, s)
	}
	if !domain.InDatePickerRange(d) {
		return nil, fmt.Errorf("%w: date %s outside %s..%s", errBadRequest, s,
			domain.DatePickerMin.Format(time.DateOnly), domain.DatePickerMax.Format(time.DateOnly))
	}
	return &d, nil
}

// writeError maps an error to a status code and a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var unknown *domain.UnknownStatisticError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &unknown), errors.Is(err, domain.ErrInvalidDate), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writePNG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w) //nolint:errcheck // client went away
}
