package config

import (
	"fmt"
	"os"
)

// StorageType selects the storage backing for report records.
type StorageType string

const (
	StorageSQLite   StorageType = "sqlite"
	StoragePostgres StorageType = "postgres"
	StorageFile     StorageType = "file"
)

// GetStorageType returns the configured backing, defaulting to SQLite.
func GetStorageType() StorageType {
	switch StorageType(os.Getenv("QATRACK_STORAGE")) {
	case StoragePostgres:
		return StoragePostgres
	case StorageFile:
		return StorageFile
	default:
		return StorageSQLite
	}
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

func GetPostgresConfig() PostgresConfig {
	cfg := PostgresConfig{
		Host:     os.Getenv("QATRACK_PG_HOST"),
		Port:     os.Getenv("QATRACK_PG_PORT"),
		Database: os.Getenv("QATRACK_PG_DB"),
		Username: os.Getenv("QATRACK_PG_USER"),
		Password: os.Getenv("QATRACK_PG_PASSWORD"),
		SSLMode:  os.Getenv("QATRACK_PG_SSLMODE"),
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.Database == "" {
		cfg.Database = GetName()
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// DSN builds the data source name for the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.Username, c.Password, c.Database, c.Port, c.SSLMode)
}
