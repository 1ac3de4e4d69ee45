package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/s1res/digital-navigator/internal/model"
	"github.com/s1res/digital-navigator/internal/utils"
)

// UserRepo is the user directory: account identity and the descriptive
// fields resolved into attendee rosters.  Authentication flows live in
// the identity layer, not here; the repository only stores the hash.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its
// ID.  A taken username or email yields ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	var first, last, phone sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,role,first_name,last_name,phone,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &first, &last, &phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if first.Valid {
		v := first.String
		u.FirstName = &v
	}
	if last.Valid {
		v := last.String
		u.LastName = &v
	}
	if phone.Valid {
		v := phone.String
		u.Phone = &v
	}
	return u, nil
}

// Count returns the number of accounts; used to decide whether the
// default accounts need seeding at boot.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
