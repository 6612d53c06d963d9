package api

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gorilla/mux"
)

func (s *Server) listArchive(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ListArchive(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"files": names})
}

func (s *Server) archivedFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	content, err := s.service.ArchivedFile(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) deleteArchived(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteArchived(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
