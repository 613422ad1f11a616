package database

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qatrack/config"
	"qatrack/database/model"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.User{},
		&model.Report{},
		&model.AuditEntry{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func open() (*gorm.DB, error) {
	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	if config.GetStorageType() == config.StoragePostgres {
		return gorm.Open(postgres.Open(config.GetPostgresConfig().DSN()), c)
	}

	dbPath := config.GetDBPath()
	if err := os.MkdirAll(path.Dir(dbPath), fs.ModePerm); err != nil {
		return nil, err
	}
	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	return gorm.Open(sqlite.Open(dsn), c)
}

// InitDB opens the configured relational engine and migrates the models.
func InitDB() error {
	var err error
	db, err = open()
	if err != nil {
		return err
	}
	return initModels()
}

// InitTestDB opens an isolated SQLite database at dbPath. Test helper.
func InitTestDB(dbPath string) error {
	var err error
	db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return err
	}
	return initModels()
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
