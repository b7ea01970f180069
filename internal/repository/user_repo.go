package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Insert stores a new account. Emails are unique; a duplicate insert fails.
func (r *UserRepo) Insert(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, is_verified)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.IsVerified)
	return err
}

// FindByEmail returns an account by normalized email, or model.ErrNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

// FindByID returns an account by id, or model.ErrNotFound.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, is_verified FROM users `+where, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.IsVerified)
	if err == pgx.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword replaces the stored password hash for an account.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CreateReset stores a password-reset token.
func (r *UserRepo) CreateReset(ctx context.Context, reset model.PasswordReset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_resets (token, kind, user_id, new_password_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reset.Token, reset.Kind, reset.UserID, reset.NewPasswordHash,
		reset.CreatedAt, reset.ExpiresAt)
	return err
}

// ConsumeReset atomically removes and returns a reset token. Expired or
// unknown tokens yield model.ErrNotFound; expired rows are cleaned up on
// the way through.
func (r *UserRepo) ConsumeReset(ctx context.Context, token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	err := r.pool.QueryRow(ctx, `
		DELETE FROM password_resets WHERE token = $1
		RETURNING token, kind, user_id, new_password_hash, created_at, expires_at`,
		token).Scan(&reset.Token, &reset.Kind, &reset.UserID, &reset.NewPasswordHash,
		&reset.CreatedAt, &reset.ExpiresAt)
	if err == pgx.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(reset.ExpiresAt) {
		return nil, model.ErrNotFound
	}
	return &reset, nil
}
