package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// cardColumns is the enriched projection shared by every surface that shows a
// product card: primary image = lowest priority (nulls last, then lowest id),
// average rating rounded to 2 decimals (0 when unrated).
const cardColumns = `
  p.id, p.name, p.description, p.price, p.endprice, p.end_price_date,
  p.stock, p.category_id, p.created_at,
  (SELECT i.link FROM images i
     WHERE i.product_id = p.id
     ORDER BY (i.priority IS NULL), i.priority, i.id
     LIMIT 1) AS primary_image,
  COALESCE((SELECT ROUND(AVG(r.value), 2) FROM rating r WHERE r.product_id = p.id), 0) AS avg_rating,
  (SELECT COUNT(*) FROM rating r WHERE r.product_id = p.id) AS rating_count
`

func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT * FROM product ORDER BY id DESC`)
	return out, err
}

func (r *ProductRepo) ListPaged(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT * FROM product ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *ProductRepo) Count(categoryID *int64) (int, error) {
	var n int
	if categoryID != nil {
		return n, r.db.Get(&n, `SELECT COUNT(*) FROM product WHERE category_id = ?`, *categoryID)
	}
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM product`)
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT * FROM product WHERE id = ?`, id)
	return p, err
}

// GetCard returns one product in its enriched card shape.
func (r *ProductRepo) GetCard(id int64) (domain.ProductCard, error) {
	var c domain.ProductCard
	err := r.db.Get(&c, `SELECT `+cardColumns+` FROM product p WHERE p.id = ?`, id)
	return c, err
}

// CardsByIDs loads enriched cards for a set of ids. Missing ids are simply
// absent from the result; callers decide what a dangling reference means.
func (r *ProductRepo) CardsByIDs(ids []int64, activeOnly bool) (map[int64]domain.ProductCard, error) {
	out := make(map[int64]domain.ProductCard, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := `SELECT ` + cardColumns + ` FROM product p WHERE p.id IN (?)`
	if activeOnly {
		q += ` AND p.active = 1`
	}
	q, args, err := sqlx.In(q, ids)
	if err != nil {
		return nil, err
	}
	var cards []domain.ProductCard
	if err := r.db.Select(&cards, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, c := range cards {
		out[c.ID] = c
	}
	return out, nil
}

// ListCards returns paginated enriched cards, optionally scoped to a category.
func (r *ProductRepo) ListCards(categoryID *int64, limit, offset int) ([]domain.ProductCard, error) {
	q := `SELECT ` + cardColumns + ` FROM product p`
	args := []any{}
	if categoryID != nil {
		q += ` WHERE p.category_id = ?`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.ProductCard
	err := r.db.Select(&out, q, args...)
	return out, err
}

// Similar resolves a product's related list into active enriched cards,
// preserving the stored order and skipping ids that no longer exist.
func (r *ProductRepo) Similar(id int64) ([]domain.ProductCard, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	cards, err := r.CardsByIDs(p.Related, true)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductCard, 0, len(cards))
	for _, rid := range p.Related {
		if c, ok := cards[rid]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ProductRepo) Create(p domain.Product) (domain.Product, error) {
	res, err := r.db.Exec(`
		INSERT INTO product
		  (name, description, price, endprice, end_price_date, stock, available, active, related, options, category_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`, p.Name, p.Description, p.Price, p.EndPrice, p.EndPriceDate, p.Stock, p.Available, p.Active, p.Related, p.Options, p.CategoryID)
	if err != nil {
		return domain.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(id)
}

// Patch applies the non-nil fields of a partial update and returns the row.
// sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Patch(id int64, p domain.ProductPatch) (domain.Product, error) {
	var b setBuilder
	if p.Name != nil {
		b.add("name", *p.Name)
	}
	if p.Description != nil {
		b.add("description", *p.Description)
	}
	if p.Price != nil {
		b.add("price", *p.Price)
	}
	if p.EndPrice != nil {
		b.add("endprice", *p.EndPrice)
	}
	if p.EndPriceDate != nil {
		b.add("end_price_date", *p.EndPriceDate)
	}
	if p.Stock != nil {
		b.add("stock", *p.Stock)
	}
	if p.Available != nil {
		b.add("available", *p.Available)
	}
	if p.Active != nil {
		b.add("active", *p.Active)
	}
	if p.Related != nil {
		b.add("related", *p.Related)
	}
	if p.Options != nil {
		b.add("options", *p.Options)
	}
	if p.CategoryID != nil {
		b.add("category_id", *p.CategoryID)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE product SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.Product{}, err
		}
	}
	return r.Get(id)
}

// Delete removes a product together with its images and ratings.
func (r *ProductRepo) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM images WHERE product_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM rating WHERE product_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// DecrementStockTx atomically subtracts qty when enough stock exists. Zero
// affected rows means the guard failed (or the product is gone); the caller
// treats both as insufficient stock.
func (r *ProductRepo) DecrementStockTx(tx *sqlx.Tx, id, qty int64) (bool, error) {
	res, err := tx.Exec(`UPDATE product SET stock = stock - ? WHERE id = ? AND stock >= ?`, qty, id, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeactivateIfExhaustedTx flips active off once stock hits zero.
func (r *ProductRepo) DeactivateIfExhaustedTx(tx *sqlx.Tx, id int64) error {
	_, err := tx.Exec(`UPDATE product SET active = 0 WHERE id = ? AND stock = 0`, id)
	return err
}

// AdjustStock applies a signed delta without the stock guard. Used by the
// order item-update path, which is best-effort per item.
func (r *ProductRepo) AdjustStock(id, delta int64) error {
	_, err := r.db.Exec(`UPDATE product SET stock = stock - ? WHERE id = ?`, delta, id)
	return err
}
