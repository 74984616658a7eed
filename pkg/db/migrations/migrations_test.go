package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "migrations.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrate_CreatesCatalogTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	applied, err := NewMigrator(db).Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if applied != len(allMigrations()) {
		t.Fatalf("applied = %d, want %d", applied, len(allMigrations()))
	}

	for _, table := range []string{"creators", "tags", "assets", "asset_tags", "socials"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %q", table)
		}
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	if _, err := m.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	applied, err := m.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if applied != 0 {
		t.Fatalf("second Migrate applied %d migrations, want 0", applied)
	}
}

func TestRollback_RevertsLastMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	if _, err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	reverted, err := m.Rollback(ctx)
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if reverted.Version != 2 {
		t.Fatalf("reverted version = %d, want 2", reverted.Version)
	}
	if db.Migrator().HasTable("socials") {
		t.Fatalf("socials table should be dropped")
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 2 || !statuses[0].Applied || statuses[1].Applied {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
}

func TestRollback_NothingApplied(t *testing.T) {
	db := openTestDB(t)
	m := NewMigrator(db)

	if _, err := m.Status(context.Background()); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if _, err := m.Rollback(context.Background()); err == nil {
		t.Fatalf("expected error when nothing is applied")
	}
}
