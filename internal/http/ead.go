package httpserver

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

type sessionTabRequest struct {
	Tab string `json:"aba" validate:"required"`
}

// filterFromQuery reads ano, curso, polo and disciplina.
func (s *Server) filterFromQuery(query url.Values) (survey.Filter, error) {
	f := survey.Filter{
		Year:       query.Get("ano"),
		Course:     query.Get("curso"),
		Pole:       query.Get("polo"),
		Discipline: query.Get("disciplina"),
	}
	return s.checkFilter(f)
}

func (s *Server) checkFilter(f survey.Filter) (survey.Filter, error) {
	f = f.Normalized()
	if err := s.validate.Struct(f); err != nil {
		return survey.Filter{}, fmt.Errorf("%w: %v", service.ErrInvalidFilter, err)
	}
	if f.Year == "" {
		f.Year = survey.DefaultYear
	}
	return f, nil
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r.URL.Query())
	if err != nil {
		s.handleError(w, r, "filter options", err)
		return
	}
	opts, err := s.deps.Dashboard.FilterOptions(r.Context(), f.Year)
	if err != nil {
		s.handleError(w, r, "filter options", err)
		return
	}
	s.respondJSON(w, http.StatusOK, opts)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r.URL.Query())
	if err != nil {
		s.handleError(w, r, "summary", err)
		return
	}
	summary, err := s.deps.Dashboard.Summary(r.Context(), f)
	if err != nil {
		s.handleError(w, r, "summary", err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab, err := service.ParseTab(chi.URLParam(r, "tab"))
	if err != nil {
		s.handleError(w, r, "tab", err)
		return
	}
	f, err := s.filterFromQuery(r.URL.Query())
	if err != nil {
		s.handleError(w, r, "tab", err)
		return
	}
	view, err := s.deps.Dashboard.Tab(r.Context(), f, tab)
	if err != nil {
		s.handleError(w, r, "tab", err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

// handleCreateSession registers a session and runs its first load. The body
// may carry an initial filter. A session whose first load fails is dropped,
// since its id never reaches the client.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var f survey.Filter
	if err := decodeJSONBody(w, r, &f); err != nil {
		s.respondError(w, http.StatusBadRequest, "Corpo da requisição inválido.", err.Error())
		return
	}
	f, err := s.checkFilter(f)
	if err != nil {
		s.handleError(w, r, "create session", err)
		return
	}

	session := s.deps.Sessions.Create()
	snap, err := session.SetFilter(r.Context(), f)
	if err != nil {
		s.logger.Info("initial session load failed", zap.String("session", session.ID()), zap.Error(err))
		s.deps.Sessions.Delete(session.ID())
		s.handleError(w, r, "create session", err)
		return
	}
	w.Header().Set("Location", "/api/ead/sessions/"+session.ID())
	s.respondJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, "get session", err)
		return
	}
	s.respondJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleSetSessionFilter(w http.ResponseWriter, r *http.Request) {
	session, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, "set filter", err)
		return
	}
	var f survey.Filter
	if err := decodeJSONBody(w, r, &f); err != nil {
		s.respondError(w, http.StatusBadRequest, "Corpo da requisição inválido.", err.Error())
		return
	}
	if f, err = s.checkFilter(f); err != nil {
		s.handleError(w, r, "set filter", err)
		return
	}
	snap, err := session.SetFilter(r.Context(), f)
	if err != nil {
		s.handleError(w, r, "set filter", err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSetSessionTab(w http.ResponseWriter, r *http.Request) {
	session, err := s.deps.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, "set tab", err)
		return
	}
	var req sessionTabRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Corpo da requisição inválido.", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Parâmetros inválidos.", err.Error())
		return
	}
	tab, err := service.ParseTab(req.Tab)
	if err != nil {
		s.handleError(w, r, "set tab", err)
		return
	}
	snap, err := session.SetTab(r.Context(), tab)
	if err != nil {
		s.handleError(w, r, "set tab", err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}
