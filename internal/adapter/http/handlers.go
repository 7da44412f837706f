package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/recruiting-territories-service/internal/adapter/csvdata"
	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
)

const noDataMessage = "No data available for this selection"

type bounds struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step,omitempty"`
}

type optionsResponse struct {
	Defaults  domain.Filter           `json:"defaults"`
	Years     bounds                  `json:"years"`
	Stars     bounds                  `json:"stars"`
	Distance  bounds                  `json:"distance"`
	Positions []domain.Position       `json:"positions"`
	Modes     []domain.ConnectionMode `json:"modes"`
}

type teamResponse struct {
	School string     `json:"school"`
	Color  string     `json:"color"`
	Campus domain.Geo `json:"campus"`
	Logo   string     `json:"logo,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	defaults, err := s.svc.DefaultFilter(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, optionsResponse{
		Defaults:  defaults,
		Years:     bounds{Min: domain.MinYearBound, Max: domain.MaxYearBound},
		Stars:     bounds{Min: 1, Max: 5},
		Distance:  bounds{Min: 0, Max: domain.MaxDistanceBound, Step: domain.DistanceStep},
		Positions: domain.Positions,
		Modes:     []domain.ConnectionMode{domain.ModeAll, domain.ModeCommits},
	})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Teams(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]teamResponse, len(teams))
	for i, t := range teams {
		out[i] = teamResponse{School: t.School, Color: t.Color, Campus: t.Campus, Logo: t.Logo()}
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleTerritories(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	t, err := s.svc.Territories(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, t)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	h, err := s.svc.Histogram(r.Context(), f, r.PathValue("school"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, h)
}

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	d, err := s.svc.Destinations(r.Context(), f, r.PathValue("school"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, d)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, ok := s.filterFromRequest(w, r)
	if !ok {
		return
	}
	recruits, filename, err := s.svc.Export(r.Context(), f, r.URL.Query().Get("school"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := csvdata.WriteRecruits(&buf, recruits); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// filterFromRequest parses the query on top of the default selection and
// writes a 400 on failure.
func (s *Server) filterFromRequest(w http.ResponseWriter, r *http.Request) (domain.Filter, bool) {
	defaults, err := s.svc.DefaultFilter(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return domain.Filter{}, false
	}
	f, err := parseFilter(r.URL.Query(), defaults)
	if err != nil {
		s.writeError(w, r, err)
		return domain.Filter{}, false
	}
	return f, true
}

// writeError maps domain errors to responses. No data is not an error for
// the caller: it renders as a 200 status message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNoData):
		sharedobs.WriteJSON(w, http.StatusOK, statusResponse{Status: "no_data", Message: noDataMessage})
	case errors.Is(err, domain.ErrInvalidFilter), errors.Is(err, domain.ErrUnknownTeam):
		sharedobs.WriteJSON(w, http.StatusBadRequest, statusResponse{Status: "invalid", Message: err.Error()})
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal error"})
	}
}
