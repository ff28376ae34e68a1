package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dhisync/synccore/internal/parser"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	log := s.log.With("filename", filename)

	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Error("extraction panic", "panic", rec)
			jsonError(w, fmt.Sprintf("extraction failed: %v", rec), http.StatusInternalServerError)
		}
	}()

	res, err := s.service.Extract(r.Context(), data, filename)
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		jsonError(w, "unsupported file format: upload a .docx or .pdf file", http.StatusBadRequest)
		return
	case err != nil:
		log.Error("extraction failed", "error", err)
		jsonError(w, "extraction failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if res.Err != nil {
		log.Warn("extraction degraded to diagnostic atom", "error", res.Err)
	}
	writeJSON(w, http.StatusOK, res)
}
