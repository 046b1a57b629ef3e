package db

import (
	"fmt"
	"log"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/projectdesk/projectdesk/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the gorm driver for the configured database kind.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "postgresql", "":
		return postgres.Open(dsn), nil
	case "mysql":
		normalized, err := mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
		return mysql.Open(normalized), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(withForeignKeys(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// mysqlDSN makes sure DATETIME/DATE columns scan into time values.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// withForeignKeys turns on sqlite foreign key enforcement, which the cascade
// and set-null references rely on.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func ConnectDatabase(driver, dsn string, debug bool) error {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return err
	}

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	for _, model := range models.All() {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrate %T: %w", model, err)
		}
	}

	log.Printf("Migrated %d tables", len(models.All()))
	return nil
}

// Ping checks that the underlying connection is reachable.
func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialised")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
