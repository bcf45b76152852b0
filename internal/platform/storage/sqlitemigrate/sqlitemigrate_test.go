package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsMigrations(t *testing.T) {
	db := openMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"README.md":      {Data: []byte("not a migration")},
	}

	if err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'"); got != 1 {
		t.Fatal("expected items table")
	}
}

func TestApplySkipsAppliedMigrations(t *testing.T) {
	db := openMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	if err := Apply(context.Background(), db, migrations, "."); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}

	// A non-idempotent statement would fail if the file ran twice.
	migrations["001_create.sql"] = &fstest.MapFile{Data: []byte("INSERT INTO items(id) VALUES ('x');")}
	migrations["002_seed.sql"] = &fstest.MapFile{Data: []byte("INSERT INTO items(id) VALUES ('y');")}
	if err := Apply(context.Background(), db, migrations, "."); err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM items"); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openMemoryDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE broken(")},
	}
	if err := Apply(context.Background(), db, migrations, ""); err == nil {
		t.Fatal("expected exec error")
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("migration rows = %d, want 0", got)
	}
}

func TestApplyRejectsMissingInputs(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected nil db error")
	}
	if err := Apply(context.Background(), openMemoryDB(t), nil, ""); err == nil {
		t.Fatal("expected nil fs error")
	}
}

func TestExtractUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "SELECT 1;", want: "SELECT 1;"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}
	for _, tc := range tests {
		if got := ExtractUp(tc.content); got != tc.want {
			t.Fatalf("%s: ExtractUp() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	if IsAlreadyExists(nil) {
		t.Fatal("nil error reported as already exists")
	}
	if !IsAlreadyExists(errors.New("table items already exists")) {
		t.Fatal("expected already exists match")
	}
	if IsAlreadyExists(errors.New("syntax error")) {
		t.Fatal("unexpected match")
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}
