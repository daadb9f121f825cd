package repos

import (
	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) ByUsername(username string) (domain.Admin, error) {
	var a domain.Admin
	err := r.db.Get(&a, `SELECT * FROM admin WHERE username = ?`, username)
	return a, err
}

func (r *AdminRepo) Create(username, hash string) (domain.Admin, error) {
	res, err := r.db.Exec(`INSERT INTO admin(username, password) VALUES (?,?)`, username, hash)
	if err != nil {
		return domain.Admin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Admin{}, err
	}
	var a domain.Admin
	err = r.db.Get(&a, `SELECT * FROM admin WHERE id = ?`, id)
	return a, err
}
