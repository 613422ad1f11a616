// Package config exposes the environment-driven configuration of the panel.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func init() {
	// Missing .env is fine, the environment may be set by the supervisor.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("QATRACK_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("QATRACK_DEBUG") == "true"
}

// IsAuthEnabled reports whether the authenticated variant is active.
// Disabled only by the explicit opt-out QATRACK_AUTH=false.
func IsAuthEnabled() bool {
	return os.Getenv("QATRACK_AUTH") != "false"
}

func GetListen() string {
	return os.Getenv("QATRACK_LISTEN")
}

func GetPort() int {
	port := os.Getenv("QATRACK_PORT")
	if port == "" {
		return 3000
	}
	var p int
	if _, err := fmt.Sscanf(port, "%d", &p); err != nil || p <= 0 {
		return 3000
	}
	return p
}

func GetJWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("QATRACK_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

// GetDataFilePath is the JSON collection used by the file storage backing.
func GetDataFilePath() string {
	p := os.Getenv("QATRACK_DATA_FILE")
	if p == "" {
		p = "data/reportes.json"
	}
	return p
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("QATRACK_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

func GetAuditRetentionDays() int {
	days := os.Getenv("QATRACK_AUDIT_RETENTION_DAYS")
	if days == "" {
		return 90
	}
	var d int
	if _, err := fmt.Sscanf(days, "%d", &d); err != nil || d <= 0 {
		return 90
	}
	return d
}
