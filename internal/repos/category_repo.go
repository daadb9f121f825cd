package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// CategoryPatch is the partial update set for a category.
type CategoryPatch struct {
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	Active   *bool   `json:"active"`
	Priority *int    `json:"priority"`
}

func (r *CategoryRepo) ListActive() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT * FROM categories WHERE active = 1 ORDER BY priority, id`)
	return out, err
}

func (r *CategoryRepo) ListPaged(limit, offset int) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT * FROM categories ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *CategoryRepo) Count() (int, error) {
	var n int
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM categories`)
}

func (r *CategoryRepo) Get(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT * FROM categories WHERE id = ?`, id)
	return c, err
}

// SummariesByIDs loads the {id,name,image} shape banner maps embed. Missing
// ids are absent from the result.
func (r *CategoryRepo) SummariesByIDs(ids []int64) (map[int64]domain.CategorySummary, error) {
	out := make(map[int64]domain.CategorySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT id, name, image FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.CategorySummary
	if err := r.db.Select(&rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CategoryRepo) Create(c domain.Category) (domain.Category, error) {
	res, err := r.db.Exec(`
		INSERT INTO categories(name, image, active, priority) VALUES (?,?,?,?)
	`, c.Name, c.Image, c.Active, c.Priority)
	if err != nil {
		return domain.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, err
	}
	return r.Get(id)
}

func (r *CategoryRepo) Patch(id int64, p CategoryPatch) (domain.Category, error) {
	var b setBuilder
	if p.Name != nil {
		b.add("name", *p.Name)
	}
	if p.Image != nil {
		b.add("image", *p.Image)
	}
	if p.Active != nil {
		b.add("active", *p.Active)
	}
	if p.Priority != nil {
		b.add("priority", *p.Priority)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE categories SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.Category{}, err
		}
	}
	return r.Get(id)
}

func (r *CategoryRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
