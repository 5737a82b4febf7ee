package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/opiniao"
)

type rawExport struct {
	audience opiniao.Audience
	failure  string
}

var (
	studentExport = rawExport{audience: opiniao.Student, failure: "Erro ao carregar os dados."}
	staffExport   = rawExport{audience: opiniao.Staff, failure: "Erro ao carregar os dados dos técnicos."}
)

// handleRawExport serves an export file exactly as stored.
func (s *Server) handleRawExport(export rawExport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := s.deps.Opinions.Raw(export.audience)
		if err == nil && !json.Valid(raw) {
			err = opiniao.ErrMalformedExport
		}
		if err != nil {
			s.logger.Error("failed to load questionnaire export",
				zap.String("audience", string(export.audience)), zap.Error(err))
			s.respondJSON(w, http.StatusInternalServerError, errorResponse{Message: export.failure})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

// handleOpinion builds the questionnaire view. Every attribute of the
// questionnaire is read from the query parameter of the same name, plus
// dimensao and pergunta.
func (s *Server) handleOpinion(w http.ResponseWriter, r *http.Request) {
	audience := opiniao.Audience(chi.URLParam(r, "audience"))
	q, err := opiniao.For(audience)
	if err != nil {
		s.handleError(w, r, "opinion", err)
		return
	}

	query := r.URL.Query()
	sel := opiniao.Selection{
		Attributes: make(map[string]string, len(q.Attributes)),
		Dimension:  query.Get("dimensao"),
		Question:   query.Get("pergunta"),
	}
	for _, attr := range q.Attributes {
		if v := query.Get(attr.Param); v != "" {
			sel.Attributes[attr.Param] = v
		}
	}

	records, err := s.deps.Opinions.Records(audience)
	if err != nil {
		failure := studentExport.failure
		if audience == opiniao.Staff {
			failure = staffExport.failure
		}
		s.logger.Error("failed to load questionnaire records", zap.String("audience", string(audience)), zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Message: failure})
		return
	}
	s.respondJSON(w, http.StatusOK, opiniao.Build(q, records, sel))
}
