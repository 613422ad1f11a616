// Package logger provides leveled logging for the panel with a console
// backend and an always-DEBUG file backend.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/op/go-logging"

	"qatrack/config"
)

const logFileName = "qatrack.log"

var (
	logger  *logging.Logger
	logFile *os.File
)

func init() {
	// Default stderr logger until InitLogger wires the real backends.
	logger = logging.MustGetLogger(config.GetName())
}

// InitLogger initializes the console backend at the given level and, when the
// log folder is writable, a file backend kept at DEBUG.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger(config.GetName())
	backends := make([]logging.Backend, 0, 2)

	format := logging.MustStringFormatter(`%{time:2006/01/02 15:04:05} %{level} - %{message}`)
	consoleBackend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), format)
	leveled := logging.AddModuleLevel(consoleBackend)
	leveled.SetLevel(level, config.GetName())
	backends = append(backends, leveled)

	if fileBackend := initFileBackend(format); fileBackend != nil {
		leveledFile := logging.AddModuleLevel(fileBackend)
		leveledFile.SetLevel(logging.DEBUG, config.GetName())
		backends = append(backends, leveledFile)
	}

	newLogger.SetBackend(logging.MultiLogger(backends...))
	logger = newLogger
}

func initFileBackend(format logging.Formatter) logging.Backend {
	folder := config.GetLogFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", err)
		return nil
	}
	file, err := os.OpenFile(filepath.Join(folder, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", err)
		return nil
	}
	logFile = file
	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), format)
}

// CloseLogger releases the log file. Called during shutdown.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
