package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog data if the DB is empty (idempotent).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure a bootstrap admin exists (idempotent; safe to run every start).
	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & admins
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  username TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS admin(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL
);

-- Catalog
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  priority INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS product(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0,
  endprice NUMERIC,
  end_price_date TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  available INTEGER NOT NULL DEFAULT 1,
  active INTEGER NOT NULL DEFAULT 1,
  related TEXT NOT NULL DEFAULT '[]',
  options TEXT,
  category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_product_category ON product(category_id);

CREATE TABLE IF NOT EXISTS images(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER REFERENCES product(id),
  link TEXT NOT NULL,
  priority INTEGER
);
CREATE INDEX IF NOT EXISTS idx_images_product ON images(product_id);

CREATE TABLE IF NOT EXISTS rating(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  value NUMERIC NOT NULL,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_rating_product ON rating(product_id);

-- Storefront content
CREATE TABLE IF NOT EXISTS banner(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'list',
  map TEXT NOT NULL DEFAULT '[]',
  background TEXT NOT NULL DEFAULT '',
  priority INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  hidden INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Vouchers & orders
CREATE TABLE IF NOT EXISTS voucher(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  code TEXT NOT NULL,
  min_value NUMERIC,
  max_value NUMERIC,
  expire_date TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  is_first INTEGER NOT NULL DEFAULT 0,
  no_of_usage INTEGER,
  value NUMERIC NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_voucher_code ON voucher(code);

CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  items TEXT NOT NULL DEFAULT '[]',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  voucher_info TEXT,
  delivery_cost NUMERIC,
  voucher_id INTEGER REFERENCES voucher(id)
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(name,image,active,priority) VALUES
	  ('Electronics','/media/cat-electronics.jpg',1,1),
	  ('Home & Kitchen','/media/cat-home.jpg',1,2)`)

	tx.MustExec(`INSERT INTO product(name,description,price,endprice,stock,related,category_id) VALUES
	  ('Wireless Earbuds','Bluetooth 5.3, 24h battery',59.90,44.90,25,'[2,3]',1),
	  ('Smart Watch','AMOLED, GPS, 7-day battery',129.00,NULL,12,'[1]',1),
	  ('Espresso Maker','15-bar pump, 1.2L tank',89.50,79.00,8,'[]',2)`)

	tx.MustExec(`INSERT INTO images(product_id,link,priority) VALUES
	  (1,'/media/earbuds-front.jpg',1),
	  (1,'/media/earbuds-case.jpg',2),
	  (2,'/media/watch-main.jpg',NULL),
	  (3,'/media/espresso.jpg',1)`)

	tx.MustExec(`INSERT INTO banner(name,type,map,background,priority,active) VALUES
	  ('Top picks','list','[1,2]','/media/banner-dark.jpg',1,1),
	  ('Shop by room','category','[1,2]','/media/banner-rooms.jpg',2,1)`)

	tx.MustExec(`INSERT INTO voucher(name,code,min_value,expire_date,active,no_of_usage,value) VALUES
	  ('Welcome 10%','WELCOME10',20,'2030-01-01 00:00:00',1,NULL,10),
	  ('Flash deal','FLASH5',0,'2030-01-01 00:00:00',1,100,5)`)

	return tx.Commit()
}

// seedAdmin ensures one bootstrap admin exists so the admin tree is reachable
// on a fresh database.
func seedAdmin(db *sqlx.DB) error {
	h, err := bcrypt.GenerateFromPassword([]byte("Admin-ChangeMe1!"), 10)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO admin(username,password) VALUES(?,?)
		ON CONFLICT(username) DO NOTHING
	`, "admin", string(h))
	return err
}
