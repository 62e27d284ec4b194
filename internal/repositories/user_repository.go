package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "tiketbus/internal/config"
	intdb "tiketbus/internal/db"
	"tiketbus/internal/domain"
	"tiketbus/internal/domain/models"
)

const userColumns = `id, name, email, password_hash, phone, role, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns all users, or only the one matching email (already case-folded).
func (r UserRepository) List(ctx context.Context, email string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if email != "" {
		query += ` WHERE email = ?`
		args = append(args, email)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) Insert(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, u.CreatedAt, u.UpdatedAt)
	return mapUserWriteErr(err, u.Email)
}

// Update never touches password_hash.
func (r UserRepository) Update(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, phone = ?, role = ?, updated_at = ?
		WHERE id = ?`, u.Name, u.Email, u.Phone, u.Role, u.UpdatedAt, u.ID)
	return mapUserWriteErr(err, u.Email)
}

func (r UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

func mapUserWriteErr(err error, email string) error {
	if err == nil {
		return nil
	}
	if intdb.IsDuplicateKey(err) {
		return domain.DuplicateError{Resource: "user", Field: "email", Value: email, Err: err}
	}
	return err
}
