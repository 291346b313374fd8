// Package dbtest opens throwaway SQLite databases with the production schema.
package dbtest

import (
	"fmt"
	"news-cms/internal/domain"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory database private to t, migrated and closed on cleanup.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Page{}, &domain.Section{}))
	return db
}

// CreatePage inserts a page with the given slug and status.
func CreatePage(t *testing.T, db *gorm.DB, slug, status string) *domain.Page {
	t.Helper()

	page := &domain.Page{
		ID:     uuid.NewString(),
		Title:  slug,
		Slug:   slug,
		Status: status,
	}
	require.NoError(t, db.Omit("Sections").Create(page).Error)
	return page
}
