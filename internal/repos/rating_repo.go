package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type RatingRepo struct{ db *sqlx.DB }

func NewRatingRepo(db *sqlx.DB) *RatingRepo { return &RatingRepo{db: db} }

func (r *RatingRepo) List() ([]domain.Rating, error) {
	var out []domain.Rating
	err := r.db.Select(&out, `SELECT * FROM rating ORDER BY id`)
	return out, err
}

func (r *RatingRepo) Get(id int64) (domain.Rating, error) {
	var rt domain.Rating
	err := r.db.Get(&rt, `SELECT * FROM rating WHERE id = ?`, id)
	return rt, err
}

// Upsert keeps at most one rating per (user, product): a repeat rating
// replaces the stored value instead of inserting a second row.
func (r *RatingRepo) Upsert(userID, productID int64, value float64) (domain.Rating, error) {
	_, err := r.db.Exec(`
		INSERT INTO rating(user_id, product_id, value) VALUES (?,?,?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET value = excluded.value
	`, userID, productID, value)
	if err != nil {
		return domain.Rating{}, err
	}
	var rt domain.Rating
	err = r.db.Get(&rt, `SELECT * FROM rating WHERE user_id = ? AND product_id = ?`, userID, productID)
	return rt, err
}

func (r *RatingRepo) Update(id int64, rt domain.Rating) (domain.Rating, error) {
	res, err := r.db.Exec(`
		UPDATE rating SET user_id = ?, product_id = ?, value = ? WHERE id = ?
	`, rt.UserID, rt.ProductID, rt.Value, id)
	if err != nil {
		return domain.Rating{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Rating{}, sql.ErrNoRows
	}
	return r.Get(id)
}

func (r *RatingRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM rating WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
