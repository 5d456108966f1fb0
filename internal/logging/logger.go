package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New creates a logfmt logger writing to a timestamped file under dir. The
// TUI owns stdout, so nothing is mirrored there.
func New(dir, prefix, lvl string) (gokitlog.Logger, io.Closer, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("%s_%s.log", prefix, timestamp))

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWriter(file, lvl), file, nil
}

// NewWriter builds the same logger on top of any writer, e.g. stderr for the
// non-interactive commands.
func NewWriter(w io.Writer, lvl string) gokitlog.Logger {
	logger := gokitlog.NewLogfmtLogger(gokitlog.NewSyncWriter(w))
	logger = level.NewFilter(logger, levelOption(lvl))
	return gokitlog.With(logger, "ts", gokitlog.DefaultTimestampUTC, "caller", gokitlog.DefaultCaller)
}

func Nop() gokitlog.Logger {
	return gokitlog.NewNopLogger()
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none", "off":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

// TimeFunction runs fn and logs how long it took.
func TimeFunction(logger gokitlog.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil {
		level.Warn(logger).Log("msg", "completed with error", "op", name, "err", err, "took", time.Since(start))
	} else {
		level.Debug(logger).Log("msg", "completed", "op", name, "took", time.Since(start))
	}
	return err
}
