package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    download_link   TEXT NOT NULL,
    type            TEXT NOT NULL,
    submission_date TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'pending',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    seen_by_admin   BOOLEAN NOT NULL DEFAULT FALSE,
    file_size       TEXT,
    file_size_bytes BIGINT,
    description     TEXT,
    category        TEXT,
    tags            TEXT[] NOT NULL DEFAULT '{}',
    site_name       TEXT,
    site_url        TEXT,
    submitter_email TEXT
);

CREATE TABLE IF NOT EXISTS downloads (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    download_link   TEXT NOT NULL,
    type            TEXT NOT NULL,
    submission_date TEXT NOT NULL,
    approved        BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    download_count  INTEGER NOT NULL DEFAULT 0,
    file_size       TEXT,
    file_size_bytes BIGINT,
    description     TEXT,
    category        TEXT,
    tags            TEXT[] NOT NULL DEFAULT '{}',
    site_name       TEXT,
    site_url        TEXT
);

CREATE TABLE IF NOT EXISTS rate_limits (
    identity TEXT NOT NULL,
    day      TEXT NOT NULL,
    count    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (identity, day)
);

CREATE TABLE IF NOT EXISTS site_settings (
    id       TEXT PRIMARY KEY,
    settings JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_verified   BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS password_resets (
    token             TEXT PRIMARY KEY,
    kind              TEXT NOT NULL,
    user_id           TEXT,
    new_password_hash TEXT,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (name, type)
);

CREATE TABLE IF NOT EXISTS download_activity (
    id          BIGSERIAL PRIMARY KEY,
    download_id TEXT NOT NULL,
    clicked_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sponsored_clicks (
    id           BIGSERIAL PRIMARY KEY,
    sponsored_id TEXT NOT NULL,
    clicked_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_downloads_type ON downloads(type);
CREATE INDEX IF NOT EXISTS idx_downloads_count ON downloads(download_count DESC);
CREATE INDEX IF NOT EXISTS idx_downloads_date ON downloads(submission_date);
CREATE INDEX IF NOT EXISTS idx_downloads_tags ON downloads USING GIN(tags);
CREATE INDEX IF NOT EXISTS idx_activity_download ON download_activity(download_id, clicked_at);
CREATE INDEX IF NOT EXISTS idx_sponsored_clicks ON sponsored_clicks(sponsored_id, clicked_at);
`

// InitSchema creates all tables and indexes if they do not exist yet.
// Idempotent; runs at every startup.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
