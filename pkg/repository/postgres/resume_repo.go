package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/ats/pkg/resume"
)

// ResumeRepository хранит резюме с извлечённым текстом.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) (*ResumeRepository, error) {
	r := &ResumeRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResumeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	file_id UUID NOT NULL,
	text_content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id);
`)
	return err
}

const resumeColumns = `id, user_id, file_id, text_content, created_at, updated_at`

func (r *ResumeRepository) Create(ctx context.Context, res resume.Resume) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO resumes (`+resumeColumns+`)
VALUES ($1, $2, $3, $4, $5, $6)
`, res.ID, res.UserID, res.FileID, res.TextContent, res.CreatedAt, res.UpdatedAt)
	return err
}

func (r *ResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	return scanResume(row)
}

func (r *ResumeRepository) ListAll(ctx context.Context, limit, offset int) ([]resume.Resume, error) {
	return r.list(ctx, `SELECT `+resumeColumns+` FROM resumes
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]resume.Resume, error) {
	return r.list(ctx, `SELECT `+resumeColumns+` FROM resumes
WHERE user_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset, userID)
}

func (r *ResumeRepository) list(ctx context.Context, query string, args ...any) ([]resume.Resume, error) {
	if n, ok := args[0].(int); ok && n <= 0 {
		args[0] = 50
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []resume.Resume
	for rows.Next() {
		item, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, rows.Err()
}

func (r *ResumeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func scanResume(row pgx.Row) (resume.Resume, error) {
	var res resume.Resume
	var created, updated time.Time
	if err := row.Scan(&res.ID, &res.UserID, &res.FileID, &res.TextContent, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	res.CreatedAt = created.UTC()
	res.UpdatedAt = updated.UTC()
	return res, nil
}
