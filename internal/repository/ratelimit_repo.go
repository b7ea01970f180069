package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// RateLimitRepo tracks per-identity daily submission counts. Rows are keyed
// by (identity, UTC calendar day), so quota rolls over at the day boundary
// without any scheduled reset job.
type RateLimitRepo struct {
	pool *pgxpool.Pool
}

func NewRateLimitRepo(pool *pgxpool.Pool) *RateLimitRepo {
	return &RateLimitRepo{pool: pool}
}

// Identity derives the quota key for a submitter: the normalized email when
// provided, otherwise a per-client anonymous bucket keyed by IP.
func Identity(submitterEmail, clientIP string) string {
	email := strings.ToLower(strings.TrimSpace(submitterEmail))
	if email != "" {
		return "email:" + email
	}
	if clientIP == "" {
		return "anon:unknown"
	}
	return "anon:" + clientIP
}

// Today returns the UTC calendar day used as the rate-limit key. UTC is
// fixed deliberately: server-local days drift across deployments.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Usage returns today's quota state for an identity.
func (r *RateLimitRepo) Usage(ctx context.Context, identity string, limit int) (model.RemainingQuota, error) {
	var used int
	err := r.pool.QueryRow(ctx,
		`SELECT count FROM rate_limits WHERE identity = $1 AND day = $2`,
		identity, Today()).Scan(&used)
	if err != nil && err != pgx.ErrNoRows {
		return model.RemainingQuota{}, err
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return model.RemainingQuota{DailyLimit: limit, Used: used, Remaining: remaining}, nil
}

// TryConsume atomically admits n submissions against today's quota for the
// identity. The check and increment are a single statement, so concurrent
// submissions can never over-admit past the limit. Returns
// model.ErrRateLimitExceeded without mutating when quota is insufficient.
func (r *RateLimitRepo) TryConsume(ctx context.Context, identity string, n, limit int) error {
	if n > limit {
		return model.ErrRateLimitExceeded
	}

	var count int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rate_limits (identity, day, count) VALUES ($1, $2, $3)
		ON CONFLICT (identity, day) DO UPDATE
		SET count = rate_limits.count + $3
		WHERE rate_limits.count + $3 <= $4
		RETURNING count`,
		identity, Today(), n, limit).Scan(&count)
	if err == pgx.ErrNoRows {
		// Conflict row existed but the WHERE guard failed: no quota left.
		return model.ErrRateLimitExceeded
	}
	return err
}
