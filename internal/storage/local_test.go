package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store(ctx, "uploads/2024/a.xlsx", []byte("a")))
	require.NoError(t, s.Store(ctx, "uploads/b.xlsx", []byte("b")))
	require.NoError(t, s.Store(ctx, "reports/r.xlsx", []byte("r")))

	data, err := s.Retrieve(ctx, "uploads/2024/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	names, err := s.List(ctx, "uploads/")
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/2024/a.xlsx", "uploads/b.xlsx"}, names)

	require.NoError(t, s.Delete(ctx, "uploads/b.xlsx"))
	assert.True(t, errors.Is(s.Delete(ctx, "uploads/b.xlsx"), ErrNotFound))

	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/r.xlsx", "uploads/2024/a.xlsx"}, names)
}

func TestLocalStorage_RejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside", "/etc/passwd", ""} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Store(ctx, name, []byte("x")))
		})
	}
}

func TestLocalStorage_RetrieveMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Retrieve(context.Background(), "reports/missing.xlsx")
	assert.True(t, errors.Is(err, ErrNotFound))
}
