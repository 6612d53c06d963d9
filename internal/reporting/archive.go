package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Archive folders
const (
	ArchiveUploads = "uploads/"
	ArchiveReports = "reports/"
)

// ErrInvalidArchiveName is returned for names outside the archive folders
var ErrInvalidArchiveName = errors.New("invalid archive name")

func inArchive(name string) bool {
	if strings.Contains(name, "..") {
		return false
	}
	return strings.HasPrefix(name, ArchiveUploads) || strings.HasPrefix(name, ArchiveReports)
}

// ListArchive returns the archived uploads and reports whose names start
// with prefix. An empty prefix lists both folders.
func (s *Service) ListArchive(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		var names []string
		for _, folder := range []string{ArchiveReports, ArchiveUploads} {
			found, err := s.storage.List(ctx, folder)
			if err != nil {
				return nil, err
			}
			names = append(names, found...)
		}
		return names, nil
	}

	if !inArchive(prefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArchiveName, prefix)
	}
	return s.storage.List(ctx, prefix)
}

// ArchivedFile returns the content of one archived file
func (s *Service) ArchivedFile(ctx context.Context, name string) ([]byte, error) {
	if !inArchive(name) || strings.HasSuffix(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArchiveName, name)
	}
	return s.storage.Retrieve(ctx, name)
}

// DeleteArchived removes one archived file
func (s *Service) DeleteArchived(ctx context.Context, name string) error {
	if !inArchive(name) || strings.HasSuffix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidArchiveName, name)
	}
	if err := s.storage.Delete(ctx, name); err != nil {
		return err
	}
	logrus.WithField("file", name).Info("Deleted archived file")
	return nil
}
