package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"
	"github.com/ruslany/expense-tracker/internal/splitter"
)

// maxUploadBytes bounds multipart parsing memory; larger files spill to
// temp storage.
const maxUploadBytes = 10 << 20

// handleImport handles POST /import: multipart form with a "file" part,
// an "institution" field, and an optional "account_id" field. Without an
// account id the import runs in preview-only mode and persists nothing.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a file part")
		return
	}

	institution, err := models.ParseInstitution(r.FormValue("institution"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var accountID *int64
	if raw := r.FormValue("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "account_id must be an integer")
			return
		}
		accountID = &id
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close uploaded file")
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	summary, err := s.importer.Import(r.Context(), header.Filename, content, institution, accountID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleSplit handles POST /transactions/{id}/split. Body:
// {"splits": [{"description", "amount", "categoryId"}, ...]}.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Splits []splitter.SplitLine `json:"splits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	children, err := s.splitter.Split(r.Context(), id, body.Splits)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"splits": children,
	})
}

// handleUnsplit handles DELETE /transactions/{id}/split.
func (s *Server) handleUnsplit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.splitter.Unsplit(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleExport handles GET /accounts/{id}/export, streaming the
// account's transactions as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "account id must be an integer")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if _, err := s.exporter.Export(r.Context(), id, w); err != nil {
		// Headers are already written; all we can do is log.
		s.logger.WithError(err).Error("Export failed mid-stream")
	}
}

// writeDomainError maps typed domain errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case apperrors.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case apperrors.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case apperrors.IsStructuralParse(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
