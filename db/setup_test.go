package db

import (
	"strings"
	"testing"

	"github.com/projectdesk/projectdesk/internal/models"
)

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		"projectdesk.db":                 "projectdesk.db?_foreign_keys=on",
		"file:x?mode=memory":             "file:x?mode=memory&_foreign_keys=on",
		"file:x?_foreign_keys=off":       "file:x?_foreign_keys=off",
		"file:x?mode=memory&_fk=1&other": "file:x?mode=memory&_fk=1&other",
	}

	for in, want := range cases {
		if got := withForeignKeys(in); got != want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector("oracle", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	dsns := map[string]string{
		"postgres": "postgres://u:p@localhost:5432/app?sslmode=disable",
		"mysql":    "u:p@tcp(localhost:3306)/app",
		"sqlite":   "app.db",
	}
	for driver, dsn := range dsns {
		if _, err := Dialector(driver, dsn); err != nil {
			t.Errorf("driver %s: %v", driver, err)
		}
	}
	if _, err := Dialector("mysql", "not a dsn"); err == nil {
		t.Error("expected malformed mysql dsn to be rejected")
	}
}

func TestMySQLDSNParsesTime(t *testing.T) {
	got, err := mysqlDSN("u:p@tcp(localhost:3306)/app?charset=utf8mb4")
	if err != nil {
		t.Fatalf("mysqlDSN: %v", err)
	}
	if !strings.Contains(got, "parseTime=true") || !strings.Contains(got, "charset=utf8mb4") {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	if err := ConnectDatabase("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared", false); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := MigrateDatabase(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	for _, model := range models.All() {
		if !DB.Migrator().HasTable(model) {
			t.Errorf("missing table for %T", model)
		}
	}

	// A second run must be a no-op.
	if err := MigrateDatabase(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
