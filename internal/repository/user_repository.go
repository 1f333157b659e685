package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/utils"
)

// UserRepo reads and writes the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// Create hashes password and inserts the user, returning its ID.  Emails
// are stored lower-cased.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		strings.TrimSpace(name), email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	return u, notFound(err)
}

// List returns users whose name or email contains q, optionally limited
// to one role, newest first.  An empty q and role return everyone.
func (r *UserRepo) List(ctx context.Context, q string, role model.Role) ([]model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE 1=1"
	var args []any
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + escapeLike(q) + "%"
		query += " AND (name LIKE ? OR email LIKE ?)"
		args = append(args, like, like)
	}
	if role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ToggleRole flips a user between admin and passenger.  actorID is the
// admin making the change; changing one's own role is forbidden.
func (r *UserRepo) ToggleRole(ctx context.Context, userID, actorID uint64) (model.Role, error) {
	if userID == actorID {
		return "", ErrForbidden
	}
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	next := u.Role.Toggled()
	if _, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", next, userID); err != nil {
		return "", err
	}
	return next, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
