package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// List returns categories, optionally restricted to one download type.
// Type-specific queries also include categories declared for "all" types.
func (r *CategoryRepo) List(ctx context.Context, typeFilter string) ([]model.Category, error) {
	query := `SELECT id, name, type, created_at FROM categories ORDER BY name`
	args := []any{}
	if typeFilter != "" && typeFilter != "all" {
		query = `SELECT id, name, type, created_at FROM categories
		         WHERE type = $1 OR type = 'all' ORDER BY name`
		args = append(args, typeFilter)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Insert stores a category. Returns false when (name, type) already exists.
func (r *CategoryRepo) Insert(ctx context.Context, c model.Category) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, type, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, type) DO NOTHING`,
		c.ID, c.Name, c.Type, c.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a category by id.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
