package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

const submissionCols = `id, name, download_link, type, submission_date, status, created_at,
	seen_by_admin, file_size, file_size_bytes, description, category, tags,
	site_name, site_url, submitter_email`

func scanSubmission(row pgx.Row) (model.Submission, error) {
	var s model.Submission
	err := row.Scan(
		&s.ID, &s.Name, &s.DownloadLink, &s.Type, &s.SubmissionDate, &s.Status, &s.CreatedAt,
		&s.SeenByAdmin, &s.FileSize, &s.FileSizeBytes, &s.Description, &s.Category, &s.Tags,
		&s.SiteName, &s.SiteURL, &s.SubmitterEmail,
	)
	return s, err
}

// Insert stores a new submission record.
func (r *SubmissionRepo) Insert(ctx context.Context, s model.Submission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO submissions (`+submissionCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.Name, s.DownloadLink, s.Type, s.SubmissionDate, s.Status, s.CreatedAt,
		s.SeenByAdmin, s.FileSize, s.FileSizeBytes, s.Description, s.Category, s.Tags,
		s.SiteName, s.SiteURL, s.SubmitterEmail)
	return err
}

// FindByID returns one submission or model.ErrNotFound.
func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	s, err := scanSubmission(r.pool.QueryRow(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns submissions newest first, optionally filtered by status.
func (r *SubmissionRepo) List(ctx context.Context, status string, page, limit int) (model.PaginatedSubmissions, error) {
	where := `WHERE TRUE`
	args := []any{}
	if status != "" {
		where = `WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions `+where, args...).Scan(&total); err != nil {
		return model.PaginatedSubmissions{}, err
	}

	offset := (page - 1) * limit
	limitPos := len(args) + 1
	listArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT `+submissionCols+` FROM submissions %s
		 ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, limitPos, limitPos+1),
		listArgs...)
	if err != nil {
		return model.PaginatedSubmissions{}, err
	}
	defer rows.Close()

	items := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return model.PaginatedSubmissions{}, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return model.PaginatedSubmissions{}, err
	}

	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return model.PaginatedSubmissions{Items: items, Total: total, Page: page, Pages: pages}, nil
}

// MarkSeen flags pending submissions as seen by the admin dashboard.
func (r *SubmissionRepo) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions SET seen_by_admin = TRUE WHERE id = ANY($1)`, ids)
	return err
}

// CountPending returns the number of pending submissions for the dashboard badge.
func (r *SubmissionRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE status = $1`, model.StatusPending).Scan(&n)
	return n, err
}

// Approve transitions a pending submission to approved and publishes it to
// the downloads catalog in one transaction. The submission id doubles as the
// download id, so a retried approval can never duplicate a catalog entry.
// Returns ErrNotFound if the id is unknown, ErrInvalidTransition if the
// submission is not pending.
func (r *SubmissionRepo) Approve(ctx context.Context, id string) (*model.Submission, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	s, err := scanSubmission(tx.QueryRow(ctx, `
		UPDATE submissions SET status = $2, seen_by_admin = TRUE
		WHERE id = $1 AND status = $3
		RETURNING `+submissionCols, id, model.StatusApproved, model.StatusPending))
	if err == pgx.ErrNoRows {
		return nil, r.transitionError(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO downloads (id, name, download_link, type, submission_date, approved,
			download_count, file_size, file_size_bytes, description, category, tags,
			site_name, site_url)
		VALUES ($1, $2, $3, $4, $5, TRUE, 0, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Name, s.DownloadLink, s.Type, s.SubmissionDate,
		s.FileSize, s.FileSizeBytes, s.Description, s.Category, s.Tags,
		s.SiteName, s.SiteURL)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reject transitions a pending submission to rejected. No catalog write.
func (r *SubmissionRepo) Reject(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE submissions SET status = $2, seen_by_admin = TRUE
		WHERE id = $1 AND status = $3`,
		id, model.StatusRejected, model.StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, id)
	}
	return nil
}

// Delete removes a submission from any status. Deleting an unknown id
// returns ErrNotFound, so a second delete of the same id is reported.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// transitionError distinguishes a missing submission from one that is no
// longer pending.
func (r *SubmissionRepo) transitionError(ctx context.Context, id string) error {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM submissions WHERE id = $1`, id).Scan(&status)
	if err == pgx.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return err
	}
	return model.ErrInvalidTransition
}
