package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type VoucherRepo struct{ db *sqlx.DB }

func NewVoucherRepo(db *sqlx.DB) *VoucherRepo { return &VoucherRepo{db: db} }

func (r *VoucherRepo) List() ([]domain.Voucher, error) {
	var out []domain.Voucher
	err := r.db.Select(&out, `SELECT * FROM voucher ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (r *VoucherRepo) ListPaged(limit, offset int) ([]domain.Voucher, error) {
	var out []domain.Voucher
	err := r.db.Select(&out, `
		SELECT * FROM voucher ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *VoucherRepo) Count() (int, error) {
	var n int
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM voucher`)
}

func (r *VoucherRepo) Get(id int64) (domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.Get(&v, `SELECT * FROM voucher WHERE id = ?`, id)
	return v, err
}

// GetByCode returns an active, unexpired voucher by its code.
func (r *VoucherRepo) GetByCode(code string) (domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.Get(&v, `
		SELECT * FROM voucher
		WHERE code = ? AND active = 1 AND datetime(expire_date) > datetime('now')
	`, code)
	return v, err
}

// FindUsable returns a voucher that may still be applied: active, unexpired,
// and with either unlimited or remaining usage.
func (r *VoucherRepo) FindUsable(code string) (domain.Voucher, error) {
	var v domain.Voucher
	err := r.db.Get(&v, `
		SELECT * FROM voucher
		WHERE code = ?
		  AND active = 1
		  AND (no_of_usage IS NULL OR no_of_usage > 0)
		  AND datetime(expire_date) > datetime('now')
	`, code)
	return v, err
}

// DecrementUsage burns one use and reports the remaining count. The guard in
// the UPDATE keeps racing callers from driving the count below zero.
func (r *VoucherRepo) DecrementUsage(code string) (int64, error) {
	if _, err := r.db.Exec(`UPDATE voucher SET no_of_usage = no_of_usage - 1 WHERE code = ? AND no_of_usage > 0`, code); err != nil {
		return 0, err
	}
	var remaining int64
	err := r.db.Get(&remaining, `SELECT no_of_usage FROM voucher WHERE code = ?`, code)
	return remaining, err
}

func (r *VoucherRepo) Deactivate(code string) error {
	_, err := r.db.Exec(`UPDATE voucher SET active = 0 WHERE code = ?`, code)
	return err
}

func (r *VoucherRepo) Create(v domain.Voucher) (domain.Voucher, error) {
	res, err := r.db.Exec(`
		INSERT INTO voucher(name, code, min_value, max_value, expire_date, type, active, is_first, no_of_usage, value)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, v.Name, v.Code, v.MinValue, v.MaxValue, v.ExpireDate, v.Type, v.Active, v.IsFirst, v.NoOfUsage, v.Value)
	if err != nil {
		return domain.Voucher{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Voucher{}, err
	}
	return r.Get(id)
}

func (r *VoucherRepo) Patch(id int64, p domain.VoucherPatch) (domain.Voucher, error) {
	var b setBuilder
	if p.Name != nil {
		b.add("name", *p.Name)
	}
	if p.Code != nil {
		b.add("code", *p.Code)
	}
	if p.MinValue != nil {
		b.add("min_value", *p.MinValue)
	}
	if p.MaxValue != nil {
		b.add("max_value", *p.MaxValue)
	}
	if p.ExpireDate != nil {
		b.add("expire_date", *p.ExpireDate)
	}
	if p.Type != nil {
		b.add("type", *p.Type)
	}
	if p.Active != nil {
		b.add("active", *p.Active)
	}
	if p.IsFirst != nil {
		b.add("is_first", *p.IsFirst)
	}
	if p.NoOfUsage != nil {
		b.add("no_of_usage", *p.NoOfUsage)
	}
	if p.Value != nil {
		b.add("value", *p.Value)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE voucher SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.Voucher{}, err
		}
	}
	return r.Get(id)
}

// Delete removes a voucher and the orders that referenced it.
func (r *VoucherRepo) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM orders WHERE voucher_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM voucher WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
