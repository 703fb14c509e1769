// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"mindset-backend/internal/db"
)

var seq atomic.Int64

// NewDB returns a migrated, private in-memory SQLite database. A single
// connection is used so concurrent transactions queue instead of failing
// with SQLITE_BUSY.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mindset_test_%d?mode=memory&cache=shared", seq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
