package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// skippedHeader lists the charts left out of a report, comma separated.
const skippedHeader = "X-Avalia-Skipped-Charts"

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := survey.Filter{Course: query.Get("curso"), Pole: query.Get("polo")}.Normalized()
	req := report.Request{
		Year:   strings.TrimSpace(query.Get("ano")),
		Course: f.Course,
		Pole:   f.Pole,
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Parâmetros inválidos.", err.Error())
		return
	}

	rep, err := s.deps.Reports.Build(r.Context(), req)
	if err != nil {
		s.handleError(w, r, "report", err)
		return
	}
	if len(rep.Skipped) > 0 {
		s.logger.Warn("report built with skipped charts",
			zap.String("file", rep.FileName), zap.Strings("skipped", rep.Skipped))
		w.Header().Set(skippedHeader, strings.Join(rep.Skipped, ","))
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s",
		rep.FileName, url.PathEscape(rep.FileName)))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.PDF)
}
