package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_RegistersDateOrder(t *testing.T) {
	v := newValidator()
	require.NotNil(t, v)

	assert.NotPanics(t, func() {
		err := v.Struct(SelectionRequest{Start: "2024-02-01", End: "2024-01-01"})
		require.Error(t, err)
		assert.Equal(t, "end must not be before start", describe(err))
	})
	assert.NoError(t, v.Struct(SelectionRequest{Start: "2024-01-01", End: "2024-01-01"}))
}

func TestSelectionRequest_Selection(t *testing.T) {
	req := SelectionRequest{
		Property: "  Ligue 1 ",
		Fixtures: []string{" PSG v OM", "  "},
		Start:    "2024-01-01",
		End:      "2024-01-31",
	}

	sel := req.Selection()
	assert.Equal(t, "Ligue 1", sel.Property)
	assert.Equal(t, []string{"PSG v OM"}, sel.Fixtures)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), sel.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), sel.End)
}
