package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSchemaMigrationContainsTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_pos_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stores",
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS sales",
		"CREATE TABLE IF NOT EXISTS password_reset_requests",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_name",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_store_email",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_password_reset_requests_user",
		"CHECK (stock >= 0)",
		"items JSONB NOT NULL DEFAULT '[]'",
		"INSERT INTO stores (name) VALUES ('pos admins')",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
