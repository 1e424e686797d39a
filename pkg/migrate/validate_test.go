package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const validBody = `-- +goose Up
CREATE TABLE demo (id TEXT PRIMARY KEY);

-- +goose Down
DROP TABLE demo;
`

func TestValidateDirAcceptsWellFormedMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101000001_create_demo.sql", validBody)
	writeMigration(t, dir, "20260101000002_add_index.sql", validBody)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "create_demo.sql", validBody)

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for filename without version prefix")
	}
}

func TestValidateDirRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101000001_first.sql", validBody)
	writeMigration(t, dir, "20260101000001_second.sql", validBody)

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for duplicate version")
	}
}

func TestValidateDirRequiresGooseMarkers(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101000001_no_down.sql", "-- +goose Up\nSELECT 1;\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for missing goose Down marker")
	}
}

// The shipped migrations must always pass their own validation.
func TestValidateShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations invalid: %v", err)
	}
}
