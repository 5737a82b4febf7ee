package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/dashboard"
	"github.com/diavi-ufpa/avalia/internal/opiniao"
	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const maxRequestBody = 64 << 10

type errorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Warn("failed to encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, details string) {
	s.respondJSON(w, status, errorResponse{Message: message, Details: details})
}

// handleError maps domain errors to HTTP statuses.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		s.logger.Debug("client went away", zap.String("op", op))
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("request timed out", zap.String("op", op), zap.Error(err))
		s.respondError(w, http.StatusGatewayTimeout, "Tempo esgotado ao carregar os dados.", "")
	case errors.Is(err, dashboard.ErrSuperseded):
		s.respondError(w, http.StatusConflict, "Requisição substituída por outra mais recente.", "")
	case errors.Is(err, dashboard.ErrSessionNotFound):
		s.respondError(w, http.StatusNotFound, "Sessão não encontrada.", "")
	case errors.Is(err, service.ErrNoResponses):
		s.respondError(w, http.StatusNotFound, "Nenhuma resposta encontrada para o filtro.", err.Error())
	case errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrUnknownTab),
		errors.Is(err, survey.ErrUnknownYear),
		errors.Is(err, report.ErrMissingCourse):
		s.respondError(w, http.StatusBadRequest, "Parâmetros inválidos.", err.Error())
	case errors.Is(err, opiniao.ErrUnknownAudience):
		s.respondError(w, http.StatusNotFound, "Questionário não encontrado.", "")
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Erro ao acessar o banco de dados.", "")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Erro interno.", "")
	}
}

// decodeJSONBody decodes an optional body: an empty one leaves dst untouched.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
