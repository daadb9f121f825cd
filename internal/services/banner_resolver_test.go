package services_test

import (
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"souq/internal/domain"
	"souq/internal/repos"
	"souq/internal/services"
)

func memdbCatalog(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE categories(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL,
	  image TEXT NOT NULL DEFAULT '', active INTEGER NOT NULL DEFAULT 1, priority INTEGER NOT NULL DEFAULT 0);
	CREATE TABLE product(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL,
	  description TEXT NOT NULL DEFAULT '', price NUMERIC NOT NULL DEFAULT 0, endprice NUMERIC,
	  end_price_date TEXT, stock INTEGER NOT NULL DEFAULT 0, available INTEGER NOT NULL DEFAULT 1,
	  active INTEGER NOT NULL DEFAULT 1, related TEXT NOT NULL DEFAULT '[]', options TEXT,
	  category_id INTEGER, created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE images(id INTEGER PRIMARY KEY AUTOINCREMENT, product_id INTEGER, link TEXT NOT NULL, priority INTEGER);
	CREATE TABLE rating(id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL,
	  product_id INTEGER NOT NULL, value NUMERIC NOT NULL, UNIQUE(user_id, product_id));
	CREATE TABLE banner(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL,
	  type TEXT NOT NULL DEFAULT 'list', map TEXT NOT NULL DEFAULT '[]', background TEXT NOT NULL DEFAULT '',
	  priority INTEGER NOT NULL DEFAULT 0, active INTEGER NOT NULL DEFAULT 1, hidden INTEGER NOT NULL DEFAULT 0,
	  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO categories(name,image) VALUES ('Audio','/media/audio.jpg'), ('Kitchen','/media/kitchen.jpg');
	INSERT INTO product(name,price,stock,category_id) VALUES
	  ('Earbuds',59.90,10,1), ('Speaker',89.00,5,1), ('Kettle',35.00,7,2);
	INSERT INTO images(product_id,link,priority) VALUES
	  (1,'/media/earbuds-3.jpg',3), (1,'/media/earbuds-1.jpg',1),
	  (1,'/media/earbuds-null.jpg',NULL), (1,'/media/earbuds-1b.jpg',1),
	  (2,'/media/speaker.jpg',NULL);
	INSERT INTO rating(user_id,product_id,value) VALUES (1,1,5),(2,1,4),(3,1,3);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newResolver(db *sqlx.DB) *services.BannerResolver {
	return services.NewBannerResolver(repos.NewBannerRepo(db), repos.NewProductRepo(db), repos.NewCategoryRepo(db))
}

func TestResolveListBanner(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map) VALUES ('Top picks','list','[2, {"id": 1}, 99]')`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 banner, got %d", len(out))
	}
	m := out[0].Map
	if len(m) != 3 {
		t.Fatalf("element order and count must be preserved, got %d", len(m))
	}
	first, ok := m[0].(domain.ProductCard)
	if !ok || first.ID != 2 || first.Name != "Speaker" {
		t.Fatalf("bare id should resolve to a card: %+v", m[0])
	}
	second, ok := m[1].(domain.ProductCard)
	if !ok || second.ID != 1 {
		t.Fatalf("object element should resolve by its id: %+v", m[1])
	}
	if m[2] != nil {
		t.Fatalf("dangling reference should resolve to null, got %+v", m[2])
	}
}

func TestResolvePrimaryImageAndRating(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map) VALUES ('One','list','[1, 2, 3]')`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	m := out[0].Map

	earbuds := m[0].(domain.ProductCard)
	// Lowest priority wins; among equals the lowest id; nulls sort last.
	if earbuds.PrimaryImage == nil || *earbuds.PrimaryImage != "/media/earbuds-1.jpg" {
		t.Fatalf("wrong primary image: %v", earbuds.PrimaryImage)
	}
	if earbuds.AvgRating != 4.0 || earbuds.RatingCount != 3 {
		t.Fatalf("want avg 4.0 count 3, got %v %d", earbuds.AvgRating, earbuds.RatingCount)
	}

	speaker := m[1].(domain.ProductCard)
	if speaker.PrimaryImage == nil || *speaker.PrimaryImage != "/media/speaker.jpg" {
		t.Fatalf("null priority image should still be picked: %v", speaker.PrimaryImage)
	}

	kettle := m[2].(domain.ProductCard)
	if kettle.PrimaryImage != nil {
		t.Fatalf("product without images should have null primary image")
	}
	if kettle.AvgRating != 0 || kettle.RatingCount != 0 {
		t.Fatalf("unrated product defaults: got %v %d", kettle.AvgRating, kettle.RatingCount)
	}
}

func TestResolveCategoryBanner(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map) VALUES ('Rooms','category','[2, 42]')`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	m := out[0].Map
	cat, ok := m[0].(domain.CategorySummary)
	if !ok || cat.ID != 2 || cat.Name != "Kitchen" {
		t.Fatalf("category id should resolve to a summary: %+v", m[0])
	}
	if m[1] != nil {
		t.Fatalf("dangling category should resolve to null, got %+v", m[1])
	}
}

func TestResolveTimerBanner(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map) VALUES
	  ('Flash','timer','[{"cta":"Buy","title":"Ends soon","end_time":"2030-06-01","product_ids":[3,99,1]}]')`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := out[0].Map[0].(services.TimerEntry)
	if !ok {
		t.Fatalf("timer element type: %+v", out[0].Map[0])
	}
	if entry.Title != "Ends soon" || entry.EndTime != "2030-06-01" {
		t.Fatalf("timer fields: %+v", entry)
	}
	// Dangling ids inside a group are skipped, order otherwise kept.
	if len(entry.Products) != 2 || entry.Products[0].ID != 3 || entry.Products[1].ID != 1 {
		t.Fatalf("timer products: %+v", entry.Products)
	}
}

func TestResolveUnknownTypePassesThrough(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map) VALUES ('Promo','html','["<b>sale</b>", 7]')`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	m := out[0].Map
	raw, ok := m[0].(json.RawMessage)
	if !ok || string(raw) != `"<b>sale</b>"` {
		t.Fatalf("unknown type should pass elements through: %+v", m[0])
	}
	// Even numeric elements stay unresolved when the type is unknown.
	raw2, ok := m[1].(json.RawMessage)
	if !ok || string(raw2) != `7` {
		t.Fatalf("numeric element under unknown type: %+v", m[1])
	}
}

func TestResolveActiveFiltersAndOrders(t *testing.T) {
	db := memdbCatalog(t)
	db.MustExec(`INSERT INTO banner(name,type,map,priority,active) VALUES
	  ('Second','list','[1]',2,1), ('Hidden','list','[1]',0,0), ('First','list','[2]',1,1)`)
	r := newResolver(db)

	out, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("inactive banner must be excluded, got %d", len(out))
	}
	if out[0].Name != "First" || out[1].Name != "Second" {
		t.Fatalf("priority order: %s, %s", out[0].Name, out[1].Name)
	}

	// Resolution is read-only: running it again yields the same result.
	again, err := r.ResolveActive()
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 || again[0].Map[0].(domain.ProductCard).ID != 2 {
		t.Fatalf("second resolution differs: %+v", again)
	}
}
