package reporting

import (
	"sync/atomic"

	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// SnapshotStore holds the Dataset currently served. Each upload installs a
// new snapshot; readers keep whichever snapshot they loaded.
type SnapshotStore struct {
	current atomic.Pointer[models.Dataset]
}

// Load returns the current snapshot, or nil before the first upload
func (s *SnapshotStore) Load() *models.Dataset {
	return s.current.Load()
}

// Swap installs d and returns the snapshot it replaced
func (s *SnapshotStore) Swap(d *models.Dataset) *models.Dataset {
	return s.current.Swap(d)
}
