package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/antipiracy/exposure-dashboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_ListArchive(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	mockStorage.On("List", mock.Anything, ArchiveReports).Return([]string{"reports/r.xlsx"}, nil)
	mockStorage.On("List", mock.Anything, ArchiveUploads).Return([]string{"uploads/u.xlsx"}, nil)

	names, err := service.ListArchive(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/r.xlsx", "uploads/u.xlsx"}, names)

	names, err = service.ListArchive(context.Background(), ArchiveUploads)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/u.xlsx"}, names)
}

func TestService_ArchiveRejectsOutsideNames(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"config.yaml", "uploads/../secret", "reports/"} {
		t.Run(name, func(t *testing.T) {
			_, err := service.ArchivedFile(ctx, name)
			assert.True(t, errors.Is(err, ErrInvalidArchiveName))
			assert.True(t, errors.Is(service.DeleteArchived(ctx, name), ErrInvalidArchiveName))
		})
	}

	_, err := service.ListArchive(ctx, "other/")
	assert.True(t, errors.Is(err, ErrInvalidArchiveName))
	mockStorage.AssertNotCalled(t, "Retrieve", mock.Anything, mock.Anything)
	mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_ArchivedFileAndDelete(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	mockStorage.On("Retrieve", mock.Anything, "reports/r.xlsx").Return([]byte("xlsx"), nil)
	mockStorage.On("Delete", mock.Anything, "reports/r.xlsx").Return(nil)

	data, err := service.ArchivedFile(context.Background(), "reports/r.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)

	require.NoError(t, service.DeleteArchived(context.Background(), "reports/r.xlsx"))
	mockStorage.AssertExpectations(t)
}

func TestService_DeleteArchivedMissing(t *testing.T) {
	service, mockStorage, _ := newTestService(t, nil)
	mockStorage.On("Delete", mock.Anything, "uploads/gone.xlsx").Return(storage.ErrNotFound)

	err := service.DeleteArchived(context.Background(), "uploads/gone.xlsx")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
