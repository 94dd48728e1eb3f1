package database

import (
	"context"
	"embed"
	"testing"
	"time"
)

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// withTestMigrations points the migration runner at the testdata
// filesystem for the duration of a test.
func withTestMigrations(t *testing.T) {
	t.Helper()

	origFS := MigrationsFS
	origDir := MigrationsDir
	MigrationsFS = testMigrationsFS
	MigrationsDir = "testdata"
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
}

func TestMigrate(t *testing.T) {
	withTestMigrations(t)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// The migrated table should accept inserts.
	_, err := db.ExecContext(ctx,
		"INSERT INTO event_log (id, module, type, data, created_at) VALUES (?, ?, ?, ?, ?)",
		"test-id", "face", "expression_changed", "{}", time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Errorf("insert into migrated table: %v", err)
	}

	// Migration should be recorded.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations count = %d, want 1", count)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	withTestMigrations(t)

	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations count = %d, want 1", count)
	}
}

func TestLoadMigrations(t *testing.T) {
	withTestMigrations(t)

	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("loadMigrations() returned %d migrations, want 1", len(migrations))
	}

	m := migrations[0]
	if m.Version != "001" {
		t.Errorf("Version = %q, want %q", m.Version, "001")
	}
	if m.Name != "event_log" {
		t.Errorf("Name = %q, want %q", m.Name, "event_log")
	}
	if m.UpSQL == "" {
		t.Error("UpSQL is empty")
	}
	if m.DownSQL == "" {
		t.Error("DownSQL is empty")
	}
}
