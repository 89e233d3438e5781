package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const sentryFlushTimeout = 2 * time.Second

type Params struct {
	Level string
	JSON  bool
	// File is the rotated log file. Empty logs to stderr only.
	File string
	// TeeStderr also copies file logs to stderr.
	TeeStderr   bool
	Environment string
	// SentryDSN enables the sentry hook for error levels and above.
	SentryDSN        string
	SentryServerName string
}

// Setup points the global logrus logger at stderr or a rotated file, stdout is
// left to command output. The returned flush drains pending sentry events and
// must run before the process exits.
func Setup(params Params) (flush func(), err error) {
	flush = func() {}

	logrus.SetLevel(GetLevel(params.Level))
	if params.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out, err := output(params)
	if err != nil {
		return flush, err
	}
	logrus.SetOutput(out)

	if params.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         params.SentryDSN,
			Environment: params.Environment,
			ServerName:  params.SentryServerName,
		})
		if err != nil {
			return flush, fmt.Errorf("init sentry: %w", err)
		}
		logrus.AddHook(NewSentryHook([]logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		}))
		flush = func() { sentry.Flush(sentryFlushTimeout) }
	}

	return flush, nil
}

func output(params Params) (io.Writer, error) {
	if params.File == "" {
		return os.Stderr, nil
	}

	file := params.File
	if filepath.Ext(file) != ".log" {
		file += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	// a CLI writes little, a handful of small rotated files is plenty
	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     90, // days
		Compress:   true,
	}
	if params.TeeStderr {
		return newTeeWriter(os.Stderr, rotated), nil
	}
	return rotated, nil
}

// GetLevel maps a configured level name to a logrus level, unknown names log at info.
func GetLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
