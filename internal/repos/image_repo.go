package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type ImageRepo struct{ db *sqlx.DB }

func NewImageRepo(db *sqlx.DB) *ImageRepo { return &ImageRepo{db: db} }

// ImagePatch is the partial update set for an image row.
type ImagePatch struct {
	ProductID *int64  `json:"product_id"`
	Link      *string `json:"link"`
	Priority  *int64  `json:"priority"`
}

func (r *ImageRepo) List() ([]domain.Image, error) {
	var out []domain.Image
	err := r.db.Select(&out, `SELECT * FROM images ORDER BY id`)
	return out, err
}

func (r *ImageRepo) Get(id int64) (domain.Image, error) {
	var img domain.Image
	err := r.db.Get(&img, `SELECT * FROM images WHERE id = ?`, id)
	return img, err
}

func (r *ImageRepo) ByProducts(ids []int64) (map[int64][]domain.Image, error) {
	out := make(map[int64][]domain.Image, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
		SELECT * FROM images WHERE product_id IN (?)
		ORDER BY product_id, (priority IS NULL), priority, id
	`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Image
	if err := r.db.Select(&rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, img := range rows {
		if img.ProductID != nil {
			out[*img.ProductID] = append(out[*img.ProductID], img)
		}
	}
	return out, nil
}

func (r *ImageRepo) Create(img domain.Image) (domain.Image, error) {
	res, err := r.db.Exec(`
		INSERT INTO images(product_id, link, priority) VALUES (?,?,?)
	`, img.ProductID, img.Link, img.Priority)
	if err != nil {
		return domain.Image{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Image{}, err
	}
	return r.Get(id)
}

func (r *ImageRepo) Patch(id int64, p ImagePatch) (domain.Image, error) {
	var b setBuilder
	if p.ProductID != nil {
		b.add("product_id", *p.ProductID)
	}
	if p.Link != nil {
		b.add("link", *p.Link)
	}
	if p.Priority != nil {
		b.add("priority", *p.Priority)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE images SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.Image{}, err
		}
	}
	return r.Get(id)
}

func (r *ImageRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
