package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"craftmarket/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(id, email, name, password_hash, role)
	  VALUES (?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	if IsUniqueViolation(err, "") {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT id, email, name, password_hash, role
	  FROM users WHERE LOWER(email) = LOWER(?)
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT id, email, name, password_hash, role FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
