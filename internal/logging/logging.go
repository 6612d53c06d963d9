// Package logging configures the global logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup applies the JSON formatter and level to the global logger. When a
// log file is configured, output is written to stdout and to a rotating file.
// The returned closer releases the file and is a no-op otherwise.
func Setup(cfg *config.Config) io.Closer {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.LogFile == "" {
		logrus.SetOutput(os.Stdout)
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, file))
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
