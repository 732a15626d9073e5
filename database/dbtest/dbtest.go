// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore returns a migrated in-memory store private to t
func NewStore(t testing.TB) *database.GORMStore {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	cfg := database.NewGORMConfig(true)
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	store := database.NewGORMStore(db, nil)
	require.NoError(t, store.Init())

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewDB is NewStore for callers that only need the *gorm.DB
func NewDB(t testing.TB) *gorm.DB {
	return NewStore(t).GetDB()
}
