package api

import (
	"errors"
	"net/http"

	"github.com/dhisync/synccore/internal/parser"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	log := s.log.With("filename", filename)
	log.Info("ingestion triggered")

	res, err := s.service.Ingest(data, filename)
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		jsonError(w, "only .docx files are supported for ingestion", http.StatusBadRequest)
		return
	case err != nil:
		log.Error("ingestion failed", "error", err)
		jsonError(w, "parsing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.service.Graph(data, filename)
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		jsonError(w, "only .docx files are supported for graph extraction", http.StatusBadRequest)
		return
	case err != nil:
		s.log.Error("graph extraction failed", "filename", filename, "error", err)
		jsonError(w, "parsing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
