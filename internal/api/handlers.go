package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Exposure Dashboard</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; color: #333; }
        .card { background: #fff; border-radius: 8px; box-shadow: 0 2px 6px rgba(0,0,0,0.1); padding: 20px; max-width: 520px; }
        .status { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="card">
        <h1>Upload exposure workbook</h1>
        <form action="/upload" method="post" enctype="multipart/form-data">
            <input type="file" name="file" accept=".xlsx" required>
            <button type="submit">Upload</button>
        </form>
        {{if .}}
        <p class="status">Serving {{.Source}} ({{.Len}} rows, loaded {{.LoadedAt.Format "2006-01-02 15:04 MST"}})</p>
        {{else}}
        <p class="status">No workbook loaded yet.</p>
        {{end}}
    </div>
</body>
</html>
`))

func (s *Server) uploadPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadTemplate.Execute(w, s.service.Current()); err != nil {
		logrus.Errorf("Failed to render upload page: %v", err)
	}
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part named \"file\"")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		writeError(w, http.StatusBadRequest, "only .xlsx workbooks are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result, err := s.service.Ingest(r.Context(), filepath.Base(header.Filename), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// decodeSelection reads and validates the request body. An empty body is an
// unrestricted selection. It writes the error response itself and reports
// whether the handler should continue.
func (s *Server) decodeSelection(w http.ResponseWriter, r *http.Request) (SelectionRequest, bool) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, describe(err))
		return req, false
	}
	return req, true
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	view, err := s.service.Dashboard(req.Selection(), req.IncludeRecords)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) telegram(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	view, err := s.service.Telegram(req.Selection(), req.IncludeRecords)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	attachment, err := s.service.ExportFiltered(req.Selection())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(attachment.Content)
}

func (s *Server) sendExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	if err := s.service.SendExport(r.Context(), req.Selection()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Export sent successfully"})
}

func (s *Server) sendReport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSelection(w, r)
	if !ok {
		return
	}

	report, err := s.service.SendReport(r.Context(), req.Selection())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Report sent successfully",
		"report_id": report.ID,
	})
}
