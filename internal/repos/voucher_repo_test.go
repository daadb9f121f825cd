package repos_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"souq/internal/repos"
)

func memdbVoucherRows(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
	CREATE TABLE voucher(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, code TEXT NOT NULL,
	  min_value NUMERIC, max_value NUMERIC, expire_date TEXT NOT NULL, type TEXT NOT NULL DEFAULT '',
	  active INTEGER NOT NULL DEFAULT 1, is_first INTEGER NOT NULL DEFAULT 0, no_of_usage INTEGER,
	  value NUMERIC NOT NULL DEFAULT 0, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO voucher(name,code,expire_date,no_of_usage,value) VALUES
	  ('Single use','ONCE','2030-01-01 00:00:00',1,5);
	`); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestDecrementUsageNeverGoesNegative(t *testing.T) {
	db := memdbVoucherRows(t)
	repo := repos.NewVoucherRepo(db)

	remaining, err := repo.DecrementUsage("ONCE")
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Fatalf("want 0 after first use, got %d", remaining)
	}

	// A second caller that raced past the usability check must not push the
	// count below zero: the guarded UPDATE matches no row.
	remaining, err = repo.DecrementUsage("ONCE")
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Fatalf("count must stop at zero, got %d", remaining)
	}

	var stored int64
	if err := db.Get(&stored, `SELECT no_of_usage FROM voucher WHERE code = 'ONCE'`); err != nil {
		t.Fatal(err)
	}
	if stored != 0 {
		t.Fatalf("stored count must stay at zero, got %d", stored)
	}
}
