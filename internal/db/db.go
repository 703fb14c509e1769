package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"mindset-backend/internal/config"
	"mindset-backend/internal/model"
)

var conn *gorm.DB

// InitDBFromConfig opens the configured database and keeps it as the process
// connection returned by GetDB.
func InitDBFromConfig(cfg *config.APIConfig) error {
	db, err := Open(cfg.DB)
	if err != nil {
		return err
	}
	conn = db
	return nil
}

// GetDB returns the process connection.
func GetDB() *gorm.DB {
	return conn
}

// Open connects with the configured driver and applies pool settings.
func Open(dc config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}

	var dialector gorm.Dialector
	switch strings.ToLower(dc.Driver) {
	case "sqlite":
		dsn := dc.DSN
		if dsn == "" {
			dsn = dc.Names.Mindset + ".db"
		}
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(PostgresDSN(dc))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dc.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	switch {
	case dialector.Name() == "sqlite":
		// SQLite has one writer. A single connection queues concurrent
		// transactions instead of failing the later one with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	case dc.Pool.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(dc.Pool.MaxOpenConns)
	}
	if dc.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dc.Pool.MaxIdleConns)
	}
	if dc.Pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(dc.Pool.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

// PostgresDSN builds a URL style DSN unless one is configured explicitly.
func PostgresDSN(dc config.DBConfig) string {
	if dc.DSN != "" {
		return dc.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		dc.Username,
		dc.Password.Value,
		dc.Host,
		dc.Port,
		dc.Names.Mindset,
		dc.SSLMode,
	)
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
