package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) List() ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `SELECT * FROM orders ORDER BY id DESC`)
	return out, err
}

func (r *OrderRepo) ListPaged(limit, offset int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `SELECT * FROM orders ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT * FROM orders WHERE id = ?`, id)
	return o, err
}

// GetWithUser joins the buyer's name onto the order row.
func (r *OrderRepo) GetWithUser(id int64) (domain.OrderWithUser, error) {
	var o domain.OrderWithUser
	err := r.db.Get(&o, `
		SELECT o.*, u.name AS user_name
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = ?
	`, id)
	return o, err
}

// InsertTx inserts an order inside the caller's transaction and returns the
// stored row.
func (r *OrderRepo) InsertTx(tx *sqlx.Tx, o domain.Order) (domain.Order, error) {
	res, err := tx.Exec(`
		INSERT INTO orders(user_id, items, phone, address, status, active, voucher_info, delivery_cost, voucher_id)
		VALUES (?,?,?,?,?,?,?,?,?)
	`, o.UserID, o.Items, o.Phone, o.Address, o.Status, o.Active, o.VoucherInfo, o.DeliveryCost, o.VoucherID)
	if err != nil {
		return domain.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Order{}, err
	}
	var out domain.Order
	err = tx.Get(&out, `SELECT * FROM orders WHERE id = ?`, id)
	return out, err
}

// SaveItems persists a rewritten item list.
func (r *OrderRepo) SaveItems(id int64, items domain.OrderItems) error {
	_, err := r.db.Exec(`UPDATE orders SET items = ? WHERE id = ?`, items, id)
	return err
}

// Update replaces the mutable order fields wholesale.
func (r *OrderRepo) Update(id int64, o domain.Order) (domain.Order, error) {
	res, err := r.db.Exec(`
		UPDATE orders
		SET items = ?, phone = ?, address = ?, status = ?, active = ?,
		    voucher_info = ?, delivery_cost = ?, voucher_id = ?
		WHERE id = ?
	`, o.Items, o.Phone, o.Address, o.Status, o.Active, o.VoucherInfo, o.DeliveryCost, o.VoucherID, id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, sql.ErrNoRows
	}
	return r.Get(id)
}

func (r *OrderRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
