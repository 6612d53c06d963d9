// Package api exposes the dashboard over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/ingest"
	"github.com/antipiracy/exposure-dashboard/internal/metrics"
	"github.com/antipiracy/exposure-dashboard/internal/reporting"
	"github.com/antipiracy/exposure-dashboard/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// triggerTimeout bounds a manually triggered report run
const triggerTimeout = 10 * time.Minute

// Server holds the HTTP handlers
type Server struct {
	service   *reporting.Service
	metrics   *metrics.Metrics
	validate  *validator.Validate
	upgrader  websocket.Upgrader
	maxUpload int64
}

// NewServer creates the handlers. maxUploadMB limits workbook uploads.
func NewServer(service *reporting.Service, m *metrics.Metrics, maxUploadMB int) *Server {
	return &Server{
		service:   service,
		metrics:   m,
		validate:  newValidator(),
		upgrader:  websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		maxUpload: int64(maxUploadMB) << 20,
	}
}

// Router registers every route
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Upload
	router.HandleFunc("/", s.uploadPage).Methods("GET")
	router.HandleFunc("/upload", s.upload).Methods("POST")

	// Dashboard data
	data := router.PathPrefix("/api").Subrouter()
	data.HandleFunc("/options", s.options).Methods("GET")
	data.HandleFunc("/dashboard", s.dashboard).Methods("POST")
	data.HandleFunc("/telegram", s.telegram).Methods("POST")
	data.HandleFunc("/export", s.export).Methods("POST")
	data.HandleFunc("/export/send", s.sendExport).Methods("POST")
	data.HandleFunc("/report/send", s.sendReport).Methods("POST")

	// Archive
	data.HandleFunc("/archive", s.listArchive).Methods("GET")
	data.HandleFunc("/archive/{name:.+}", s.archivedFile).Methods("GET")
	data.HandleFunc("/archive/{name:.+}", s.deleteArchived).Methods("DELETE")

	router.HandleFunc("/dashboard/ws", s.events).Methods("GET")

	// Operations
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/status", s.status).Methods("GET")
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
	router.HandleFunc("/trigger", s.trigger).Methods("POST")

	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.service.GetMetrics()))
}

func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		if err := s.service.RunScheduledReport(ctx); err != nil {
			logrus.Errorf("Manual report trigger failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Report triggered successfully"})
}

type errorResponse struct {
	Error string `json:"error"`
	Sheet string `json:"sheet,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service errors to status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *ingest.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Sheet: verr.Sheet})
	case errors.Is(err, reporting.ErrNoDataset):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reporting.ErrInvalidArchiveName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logrus.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
