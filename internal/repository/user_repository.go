package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adora-ads/adora-api/internal/model"
	"github.com/adora-ads/adora-api/internal/utils"
)

type UserRepo struct {
	DB       *sql.DB
	Profiles *ProfileRepo
}

func NewUserRepo(db *sql.DB, profiles *ProfileRepo) *UserRepo {
	return &UserRepo{DB: db, Profiles: profiles}
}

var ErrEmailExists = errors.New("email already exists")

// Create inserts the account and its profile in one transaction and returns
// the new user id. profile.UserID and profile.Role are set from the account.
func (r *UserRepo) Create(ctx context.Context, email, password string, role model.Role, cost int, profile *model.Profile) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		id, email, hash, string(role), true, now, now); err != nil {
		if isDuplicate(err) {
			return "", ErrEmailExists
		}
		return "", err
	}

	profile.UserID = id
	profile.Role = role
	if err := r.Profiles.insertTx(ctx, tx, profile); err != nil {
		return "", fmt.Errorf("insert profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return id, nil
}

const userColumns = "id,email,password_hash,role,is_active,created_at,updated_at"

func scanUser(rs rowScanner) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := rs.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	u.Role = model.Role(role)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}
