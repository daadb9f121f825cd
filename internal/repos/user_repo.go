package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"souq/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// UserPatch is the partial update set for a user. Password arrives already
// hashed from the auth service.
type UserPatch struct {
	Name     *string
	Username *string
	Email    *string
	Hash     *string
}

func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.db.Select(&out, `SELECT * FROM users ORDER BY id DESC`)
	return out, err
}

func (r *UserRepo) ListPaged(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	err := r.db.Select(&out, `SELECT * FROM users ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *UserRepo) Count() (int, error) {
	var n int
	return n, r.db.Get(&n, `SELECT COUNT(*) FROM users`)
}

func (r *UserRepo) Get(id int64) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT * FROM users WHERE id = ?`, id)
	return u, err
}

func (r *UserRepo) ByEmail(email string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT * FROM users WHERE email = ?`, email)
	return u, err
}

func (r *UserRepo) Create(name, username, email, hash string) (domain.User, error) {
	res, err := r.db.Exec(`
		INSERT INTO users(name, username, email, password) VALUES (?,?,?,?)
	`, name, username, email, hash)
	if err != nil {
		return domain.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return r.Get(id)
}

func (r *UserRepo) Patch(id int64, p UserPatch) (domain.User, error) {
	var b setBuilder
	if p.Name != nil {
		b.add("name", *p.Name)
	}
	if p.Username != nil {
		b.add("username", *p.Username)
	}
	if p.Email != nil {
		b.add("email", *p.Email)
	}
	if p.Hash != nil {
		b.add("password", *p.Hash)
	}
	if !b.empty() {
		args := append(b.args, id)
		if _, err := r.db.Exec(`UPDATE users SET `+b.clause()+` WHERE id = ?`, args...); err != nil {
			return domain.User{}, err
		}
	}
	return r.Get(id)
}

// DeleteCascade removes a user together with their ratings and orders.
func (r *UserRepo) DeleteCascade(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM rating WHERE user_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM orders WHERE user_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
