package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/ats/pkg/application"
)

// ApplicationRepository хранит отклики. Пара (вакансия, соискатель) уникальна.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	r := &ApplicationRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS job_applications (
	id UUID PRIMARY KEY,
	job_listing_id UUID NOT NULL REFERENCES job_listings(id) ON DELETE CASCADE,
	applicant_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	resume_id UUID,
	cover_letter TEXT,
	status TEXT NOT NULL DEFAULT 'SUBMITTED',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (job_listing_id, applicant_id)
);
CREATE INDEX IF NOT EXISTS idx_job_applications_applicant ON job_applications(applicant_id);
CREATE INDEX IF NOT EXISTS idx_job_applications_listing ON job_applications(job_listing_id);
`)
	return err
}

const applicationColumns = `id, job_listing_id, applicant_id, resume_id, cover_letter, status, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) error {
	var cover *string
	if a.CoverLetter != "" {
		cover = &a.CoverLetter
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO job_applications (`+applicationColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, a.ID, a.JobListingID, a.ApplicantID, a.ResumeID, cover, string(a.Status), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return application.ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) GetByListingAndApplicant(ctx context.Context, listingID, applicantID uuid.UUID) (application.Application, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+applicationColumns+` FROM job_applications
WHERE job_listing_id = $1 AND applicant_id = $2
`, listingID, applicantID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListAll(ctx context.Context, limit, offset int) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM job_applications
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM job_applications
WHERE applicant_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset, applicantID)
}

func (r *ApplicationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]application.Application, error) {
	return r.list(ctx, `
SELECT a.id, a.job_listing_id, a.applicant_id, a.resume_id, a.cover_letter, a.status, a.created_at, a.updated_at
FROM job_applications a
JOIN job_listings l ON l.id = a.job_listing_id
WHERE l.company_id = $3
ORDER BY a.created_at DESC LIMIT $1 OFFSET $2`, limit, offset, companyID)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	if n, ok := args[0].(int); ok && n <= 0 {
		args[0] = 50
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status, updatedAt time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE job_applications SET status = $2, updated_at = $3 WHERE id = $1
`, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application
	var status string
	var cover *string
	var created, updated time.Time
	if err := row.Scan(&a.ID, &a.JobListingID, &a.ApplicantID, &a.ResumeID, &cover,
		&status, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	if cover != nil {
		a.CoverLetter = *cover
	}
	a.Status = application.Status(status)
	a.CreatedAt = created.UTC()
	a.UpdatedAt = updated.UTC()
	return a, nil
}
