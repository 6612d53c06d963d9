package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")
	closer := Setup(&config.Config{Debug: true, LogFile: path, LogMaxSizeMB: 1})
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	logrus.WithField("dataset", "abc").Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dataset":"abc"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetup_StdoutOnly(t *testing.T) {
	closer := Setup(&config.Config{})
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.NoError(t, closer.Close())
}
