package api

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/tabular"
)

const maxImportBytes = 10 << 20

func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	strict := s.importStrict
	if raw := r.URL.Query().Get("strict"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, &journal.ValidationError{Field: "strict", Message: "strict must be true or false"})
			return
		}
		strict = v
	}

	rows, err := tabular.ReadRows(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		s.writeError(w, r, &journal.ValidationError{Field: "file", Message: err.Error()})
		return
	}

	rep, err := tabular.Import(r.Context(), s.journalOf(r), rows, strict)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Imported trades",
		zap.String("batch_id", rep.BatchID),
		zap.Int("applied", rep.Applied),
		zap.Int("failed", len(rep.Failed)))
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := s.journalOf(r).ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, tabular.ExportFileName(s.now())))
	if err := tabular.Export(w, trades); err != nil {
		s.logger.Error("Failed to write export", zap.Error(err))
	}
}
