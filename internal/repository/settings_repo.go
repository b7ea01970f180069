package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

const settingsRowID = "site_settings"

// SettingsRepo persists the singleton site-settings document as a jsonb row.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get returns the settings document, creating it with defaults on first read.
func (r *SettingsRepo) Get(ctx context.Context) (model.SiteSettings, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT settings FROM site_settings WHERE id = $1`, settingsRowID).Scan(&raw)
	if err == pgx.ErrNoRows {
		defaults := model.DefaultSiteSettings()
		if err := r.Save(ctx, defaults); err != nil {
			return model.SiteSettings{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return model.SiteSettings{}, err
	}

	var s model.SiteSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.SiteSettings{}, err
	}
	return s, nil
}

// Save upserts the whole settings document.
func (r *SettingsRepo) Save(ctx context.Context, s model.SiteSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO site_settings (id, settings) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings`,
		settingsRowID, raw)
	return err
}
