package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"souq/internal/repos"
	"souq/internal/services"
)

func memdbVouchers(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE voucher(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, code TEXT NOT NULL,
	  min_value NUMERIC, max_value NUMERIC, expire_date TEXT NOT NULL, type TEXT NOT NULL DEFAULT '',
	  active INTEGER NOT NULL DEFAULT 1, is_first INTEGER NOT NULL DEFAULT 0, no_of_usage INTEGER,
	  value NUMERIC NOT NULL DEFAULT 0, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO voucher(name,code,expire_date,no_of_usage,value) VALUES
	  ('Last one','LAST1','2030-01-01 00:00:00',1,5),
	  ('Evergreen','FOREVER','2030-01-01 00:00:00',NULL,10),
	  ('Stacked','STACK3','2030-01-01 00:00:00',3,5);
	INSERT INTO voucher(name,code,expire_date,no_of_usage,value,active) VALUES
	  ('Disabled','OFF','2030-01-01 00:00:00',5,5,0);
	INSERT INTO voucher(name,code,expire_date,no_of_usage,value) VALUES
	  ('Bygone','EXPIRED','2020-01-01 00:00:00',5,5);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestUseDecrementsAndDeactivatesAtZero(t *testing.T) {
	db := memdbVouchers(t)
	svc := services.NewVoucherService(repos.NewVoucherRepo(db))

	v, err := svc.Use("LAST1")
	if err != nil {
		t.Fatal(err)
	}
	if v.NoOfUsage == nil || *v.NoOfUsage != 0 {
		t.Fatalf("want 0 usages left, got %v", v.NoOfUsage)
	}
	if v.Active {
		t.Fatal("voucher must deactivate when the last usage is burned")
	}

	// A spent voucher cannot be used again.
	if _, err := svc.Use("LAST1"); !errors.Is(err, services.ErrVoucherUnusable) {
		t.Fatalf("want unusable, got %v", err)
	}
}

func TestUseDecrementsWithoutDeactivating(t *testing.T) {
	db := memdbVouchers(t)
	svc := services.NewVoucherService(repos.NewVoucherRepo(db))

	v, err := svc.Use("STACK3")
	if err != nil {
		t.Fatal(err)
	}
	if v.NoOfUsage == nil || *v.NoOfUsage != 2 || !v.Active {
		t.Fatalf("want 2 usages left and active, got %+v", v)
	}
}

func TestUseUnlimitedVoucherIsFree(t *testing.T) {
	db := memdbVouchers(t)
	svc := services.NewVoucherService(repos.NewVoucherRepo(db))

	for i := 0; i < 3; i++ {
		v, err := svc.Use("FOREVER")
		if err != nil {
			t.Fatal(err)
		}
		if v.NoOfUsage != nil || !v.Active {
			t.Fatalf("unlimited voucher must stay untouched, got %+v", v)
		}
	}
}

func TestUseRejectsInactiveExpiredAndUnknown(t *testing.T) {
	db := memdbVouchers(t)
	svc := services.NewVoucherService(repos.NewVoucherRepo(db))

	for _, code := range []string{"OFF", "EXPIRED", "NOPE"} {
		if _, err := svc.Use(code); !errors.Is(err, services.ErrVoucherUnusable) {
			t.Fatalf("%s: want unusable, got %v", code, err)
		}
	}
}

func TestGetByCodeDoesNotConsume(t *testing.T) {
	db := memdbVouchers(t)
	repo := repos.NewVoucherRepo(db)
	svc := services.NewVoucherService(repo)

	v, err := svc.GetByCode("LAST1")
	if err != nil {
		t.Fatal(err)
	}
	if v.NoOfUsage == nil || *v.NoOfUsage != 1 {
		t.Fatalf("lookup must not burn a usage, got %v", v.NoOfUsage)
	}
	if _, err := svc.GetByCode("EXPIRED"); !errors.Is(err, services.ErrVoucherUnusable) {
		t.Fatalf("expired lookup: got %v", err)
	}
}
