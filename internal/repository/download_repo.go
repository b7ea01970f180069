package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type DownloadRepo struct {
	pool *pgxpool.Pool
}

func NewDownloadRepo(pool *pgxpool.Pool) *DownloadRepo {
	return &DownloadRepo{pool: pool}
}

const downloadCols = `id, name, download_link, type, submission_date, approved, created_at,
	download_count, file_size, file_size_bytes, description, category, tags,
	site_name, site_url`

func scanDownload(row pgx.Row) (model.Download, error) {
	var d model.Download
	err := row.Scan(
		&d.ID, &d.Name, &d.DownloadLink, &d.Type, &d.SubmissionDate, &d.Approved, &d.CreatedAt,
		&d.DownloadCount, &d.FileSize, &d.FileSizeBytes, &d.Description, &d.Category, &d.Tags,
		&d.SiteName, &d.SiteURL,
	)
	return d, err
}

// OrderClause maps a public sort key onto SQL. Unknown keys fall back to
// newest first. Size sorts place unparseable sizes last in both directions.
func OrderClause(sortBy string) string {
	switch sortBy {
	case model.SortDateAsc:
		return "created_at ASC"
	case model.SortDownloadsDesc:
		return "download_count DESC"
	case model.SortDownloadsAsc:
		return "download_count ASC"
	case model.SortNameAsc:
		return "name ASC"
	case model.SortNameDesc:
		return "name DESC"
	case model.SortSizeDesc:
		return "file_size_bytes DESC NULLS LAST"
	case model.SortSizeAsc:
		return "file_size_bytes ASC NULLS LAST"
	default:
		return "created_at DESC"
	}
}

// buildWhere composes the filter conditions. Size-range conditions compare
// file_size_bytes, which is NULL for unparseable sizes, so those entries are
// excluded from range-filtered results.
func buildWhere(f model.ListFilter) (string, []any) {
	conds := []string{"approved = TRUE"}
	args := []any{}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Type != "" && f.Type != "all" {
		add("type = $%d", f.Type)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, s)
		p := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE '%%' || $%d || '%%' OR COALESCE(description, '') ILIKE '%%' || $%d || '%%')", p, p))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if len(f.Tags) > 0 {
		add("tags @> $%d", f.Tags)
	}
	if f.DateFrom != "" {
		add("submission_date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("submission_date <= $%d", f.DateTo)
	}
	if f.SizeMin != nil {
		add("file_size_bytes >= $%d", *f.SizeMin)
	}
	if f.SizeMax != nil {
		add("file_size_bytes <= $%d", *f.SizeMax)
	}

	return strings.Join(conds, " AND "), args
}

// List returns one page of the public catalog for the given filters and sort.
func (r *DownloadRepo) List(ctx context.Context, f model.ListFilter, sortBy string, page, limit int) (model.PaginatedDownloads, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM downloads WHERE `+where, args...).Scan(&total); err != nil {
		return model.PaginatedDownloads{}, err
	}

	limitPos := len(args) + 1
	listArgs := append(args, limit, (page-1)*limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT `+downloadCols+` FROM downloads WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, OrderClause(sortBy), limitPos, limitPos+1), listArgs...)
	if err != nil {
		return model.PaginatedDownloads{}, err
	}
	defer rows.Close()

	items := []model.Download{}
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return model.PaginatedDownloads{}, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return model.PaginatedDownloads{}, err
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return model.PaginatedDownloads{Items: items, Total: total, Page: page, Pages: pages}, nil
}

// TopByCount returns the n approved downloads with the highest click counts.
func (r *DownloadRepo) TopByCount(ctx context.Context, n int) ([]model.Download, error) {
	if n <= 0 {
		return []model.Download{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+downloadCols+` FROM downloads WHERE approved = TRUE
		 ORDER BY download_count DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDownloads(rows)
}

// IncrementCount atomically bumps the click counter for a download.
func (r *DownloadRepo) IncrementCount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE downloads SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RecordActivity stores a click event for trending aggregation.
func (r *DownloadRepo) RecordActivity(ctx context.Context, downloadID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO download_activity (download_id) VALUES ($1)`, downloadID)
	return err
}

// Trending returns up to n approved downloads ordered by click activity in
// the trailing window, backfilled with the all-time most downloaded.
func (r *DownloadRepo) Trending(ctx context.Context, n int, window time.Duration) ([]model.Download, error) {
	since := time.Now().UTC().Add(-window)
	rows, err := r.pool.Query(ctx, `
		SELECT `+downloadCols+` FROM downloads d
		JOIN (
			SELECT download_id, COUNT(*) AS recent
			FROM download_activity
			WHERE clicked_at >= $1
			GROUP BY download_id
			ORDER BY recent DESC
			LIMIT $2
		) a ON a.download_id = d.id
		WHERE d.approved = TRUE
		ORDER BY a.recent DESC`, since, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trending, err := collectDownloads(rows)
	if err != nil {
		return nil, err
	}
	if len(trending) >= n {
		return trending[:n], nil
	}

	// Not enough recent activity: fill with the overall top downloads.
	seen := make([]string, 0, len(trending))
	for _, d := range trending {
		seen = append(seen, d.ID)
	}
	fillRows, err := r.pool.Query(ctx,
		`SELECT `+downloadCols+` FROM downloads
		 WHERE approved = TRUE AND NOT (id = ANY($1))
		 ORDER BY download_count DESC LIMIT $2`, seen, n-len(trending))
	if err != nil {
		return nil, err
	}
	defer fillRows.Close()

	fill, err := collectDownloads(fillRows)
	if err != nil {
		return nil, err
	}
	return append(trending, fill...), nil
}

// RecordSponsoredClick stores a click on a sponsored slot.
func (r *DownloadRepo) RecordSponsoredClick(ctx context.Context, sponsoredID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sponsored_clicks (sponsored_id) VALUES ($1)`, sponsoredID)
	return err
}

// SponsoredClickCounts returns total / 24h / 7d click counts for one slot.
func (r *DownloadRepo) SponsoredClickCounts(ctx context.Context, sponsoredID string) (total, last24h, last7d int, err error) {
	now := time.Now().UTC()
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE clicked_at >= $2),
		       COUNT(*) FILTER (WHERE clicked_at >= $3)
		FROM sponsored_clicks WHERE sponsored_id = $1`,
		sponsoredID, now.Add(-24*time.Hour), now.Add(-7*24*time.Hour)).
		Scan(&total, &last24h, &last7d)
	return
}

// AdminSearch lists approved downloads by name substring, newest first.
func (r *DownloadRepo) AdminSearch(ctx context.Context, search string, page, limit int) (model.PaginatedDownloads, error) {
	f := model.ListFilter{Search: search}
	return r.List(ctx, f, model.SortDateDesc, page, limit)
}

// Delete removes a download from the catalog.
func (r *DownloadRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM downloads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Stats aggregates the public catalog counters.
func (r *DownloadRepo) Stats(ctx context.Context) (model.CatalogStats, error) {
	var s model.CatalogStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE type = 'game'),
		       COUNT(*) FILTER (WHERE type = 'software'),
		       COUNT(*) FILTER (WHERE type = 'movie'),
		       COUNT(*) FILTER (WHERE type = 'tv_show'),
		       COALESCE(SUM(download_count), 0)
		FROM downloads WHERE approved = TRUE`).
		Scan(&s.Total, &s.Games, &s.Software, &s.Movies, &s.TVShows, &s.TotalDownloads)
	return s, err
}

// PopularTags returns the most used tags across approved downloads.
func (r *DownloadRepo) PopularTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.tag, COUNT(*) AS uses
		FROM downloads d, UNNEST(d.tags) AS t(tag)
		WHERE d.approved = TRUE
		GROUP BY t.tag
		ORDER BY uses DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.TagCount{}
	for rows.Next() {
		var t model.TagCount
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func collectDownloads(rows pgx.Rows) ([]model.Download, error) {
	items := []model.Download{}
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
