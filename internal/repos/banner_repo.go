package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type BannerRepo struct{ db *sqlx.DB }

func NewBannerRepo(db *sqlx.DB) *BannerRepo { return &BannerRepo{db: db} }

// ListActive returns the storefront's visible banners in display order.
func (r *BannerRepo) ListActive() ([]domain.Banner, error) {
	var out []domain.Banner
	err := r.db.Select(&out, `SELECT * FROM banner WHERE active = 1 ORDER BY priority, id`)
	return out, err
}

// ListPaged returns all banners (active and inactive) in display order.
func (r *BannerRepo) ListPaged(limit, offset int) ([]domain.Banner, error) {
	var out []domain.Banner
	err := r.db.Select(&out, `SELECT * FROM banner ORDER BY priority, id LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *BannerRepo) Count() (int, error) {
	var n int
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM banner`)
}

func (r *BannerRepo) Get(id int64) (domain.Banner, error) {
	var b domain.Banner
	err := r.db.Get(&b, `SELECT * FROM banner WHERE id = ?`, id)
	return b, err
}

func (r *BannerRepo) Create(b domain.Banner) (domain.Banner, error) {
	res, err := r.db.Exec(`
		INSERT INTO banner(name, type, map, background, priority, active, hidden)
		VALUES (?,?,?,?,?,?,?)
	`, b.Name, b.Type, b.Map, b.Background, b.Priority, b.Active, b.Hidden)
	if err != nil {
		return domain.Banner{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Banner{}, err
	}
	return r.Get(id)
}

func (r *BannerRepo) Patch(id int64, p domain.BannerPatch) (domain.Banner, error) {
	var b setBuilder
	if p.Name != nil {
		b.add("name", *p.Name)
	}
	if p.Type != nil {
		b.add("type", *p.Type)
	}
	if p.Priority != nil {
		b.add("priority", *p.Priority)
	}
	if p.Background != nil {
		b.add("background", *p.Background)
	}
	if p.Active != nil {
		b.add("active", *p.Active)
	}
	if p.Hidden != nil {
		b.add("hidden", *p.Hidden)
	}
	if p.Map != nil {
		b.add("map", *p.Map)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE banner SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.Banner{}, err
		}
	}
	return r.Get(id)
}

func (r *BannerRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM banner WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
