// Package reporting owns the served Dataset snapshot and turns it into
// dashboard views, exports and delivered reports.
package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/antipiracy/exposure-dashboard/internal/ingest"
	"github.com/antipiracy/exposure-dashboard/internal/metrics"
	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/antipiracy/exposure-dashboard/internal/notifications"
	"github.com/antipiracy/exposure-dashboard/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrNoDataset is returned by read operations before the first upload
var ErrNoDataset = errors.New("no workbook has been uploaded yet")

// Service serves the current Dataset snapshot
type Service struct {
	config              *config.Config
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	metrics             *metrics.Metrics
	snapshots           SnapshotStore
	status              *Status
	mu                  sync.RWMutex

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSub     int

	now func() time.Time
}

// Status is the operational summary served on /status
type Status struct {
	DatasetID          string         `json:"dataset_id,omitempty"`
	Source             string         `json:"source,omitempty"`
	LoadedAt           time.Time      `json:"loaded_at,omitempty"`
	TotalRows          int            `json:"total_rows"`
	SheetRows          map[string]int `json:"sheet_rows"`
	DroppedRows        int            `json:"dropped_rows"`
	Uploads            int            `json:"uploads"`
	FailedUploads      int            `json:"failed_uploads"`
	ReportsSent        int            `json:"reports_sent"`
	LastReport         time.Time      `json:"last_report,omitempty"`
	LastReportDuration string         `json:"last_report_duration,omitempty"`
	LastError          string         `json:"last_error,omitempty"`
	ErrorCount         int            `json:"error_count"`
}

// IngestResult describes an installed upload
type IngestResult struct {
	DatasetID string              `json:"dataset_id"`
	Source    string              `json:"source"`
	Rows      int                 `json:"rows"`
	Dropped   int                 `json:"dropped"`
	Sheets    []ingest.SheetStats `json:"sheets"`
}

// NewService creates a new reporting service
func NewService(cfg *config.Config, storage storage.StorageInterface, notificationService notifications.NotificationInterface, m *metrics.Metrics) *Service {
	return &Service{
		config:              cfg,
		storage:             storage,
		notificationService: notificationService,
		metrics:             m,
		status: &Status{
			SheetRows: make(map[string]int),
		},
		subscribers: make(map[int]chan Event),
		now:         time.Now,
	}
}

// Current returns the snapshot in use, or nil before the first upload
func (s *Service) Current() *models.Dataset {
	return s.snapshots.Load()
}

func (s *Service) current() (*models.Dataset, error) {
	d := s.snapshots.Load()
	if d == nil {
		return nil, ErrNoDataset
	}
	return d, nil
}

// Ingest validates an uploaded workbook, archives the original bytes and
// installs it as the new snapshot. A rejected upload leaves the current
// snapshot in place.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	ds, stats, err := ingest.LoadBytes(data, filename)
	s.metrics.ObserveUpload(err)
	if err != nil {
		s.recordUploadFailure(err)
		return nil, err
	}

	archiveName := fmt.Sprintf("%s%s_%s_%s", ArchiveUploads, ds.LoadedAt.Format("20060102T150405Z"), ds.ID, path.Base(filename))
	if err := s.storage.Store(ctx, archiveName, data); err != nil {
		// The upload is still served; only the archive copy is missing
		logrus.WithField("dataset", ds.ID).Errorf("Failed to archive upload: %v", err)
		s.recordError(err)
	}

	previous := s.snapshots.Swap(ds)

	sheetRows := make(map[string]int, len(stats.Sheets))
	for _, sh := range stats.Sheets {
		sheetRows[string(sh.Sheet)] = sh.Rows
	}
	s.metrics.SetSheetRows(sheetRows, stats.Dropped())

	s.mu.Lock()
	s.status.DatasetID = ds.ID
	s.status.Source = ds.Source
	s.status.LoadedAt = ds.LoadedAt
	s.status.TotalRows = stats.Rows()
	s.status.SheetRows = sheetRows
	s.status.DroppedRows = stats.Dropped()
	s.status.Uploads++
	s.mu.Unlock()

	fields := logrus.Fields{"dataset": ds.ID, "source": filename, "rows": stats.Rows()}
	if previous != nil {
		fields["replaced"] = previous.ID
	}
	logrus.WithFields(fields).Info("Installed new dataset snapshot")

	s.publish(Event{Type: EventDatasetReplaced, DatasetID: ds.ID, Source: ds.Source, Rows: ds.Len()})

	return &IngestResult{
		DatasetID: ds.ID,
		Source:    ds.Source,
		Rows:      stats.Rows(),
		Dropped:   stats.Dropped(),
		Sheets:    stats.Sheets,
	}, nil
}

func (s *Service) recordUploadFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.FailedUploads++
	s.status.LastError = err.Error()
	s.status.ErrorCount++
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastError = err.Error()
	s.status.ErrorCount++
}

// GetMetrics returns the current status as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.status, "", "  ")
	return string(data)
}
