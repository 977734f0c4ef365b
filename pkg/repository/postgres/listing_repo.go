package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/ats/pkg/listing"
)

// ListingRepository хранит вакансии; списки квалификаций лежат в JSONB,
// чтобы сохранить их порядок.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	r := &ListingRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ListingRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS job_listings (
	id UUID PRIMARY KEY,
	company_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	company_name TEXT NOT NULL,
	location TEXT NOT NULL,
	job_type TEXT NOT NULL,
	is_remote BOOLEAN NOT NULL DEFAULT FALSE,
	salary_min NUMERIC(10,2),
	salary_max NUMERIC(10,2),
	expires_on DATE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	minimum_qualifications JSONB NOT NULL DEFAULT '[]',
	preferred_qualifications JSONB NOT NULL DEFAULT '[]',
	posted_on TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_job_listings_company ON job_listings(company_id);
`)
	return err
}

const listingColumns = `id, company_id, title, description, company_name, location, job_type,
	is_remote, salary_min, salary_max, expires_on, is_active,
	minimum_qualifications, preferred_qualifications, posted_on`

func (r *ListingRepository) Create(ctx context.Context, l listing.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.PostedOn.IsZero() {
		l.PostedOn = time.Now().UTC()
	}
	minQ, err := json.Marshal(l.MinimumQualifications)
	if err != nil {
		return err
	}
	prefQ, err := json.Marshal(l.PreferredQualifications)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO job_listings (`+listingColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`, l.ID, l.CompanyID, strings.TrimSpace(l.Title), l.Description, l.CompanyName, l.Location,
		string(l.JobType), l.IsRemote, l.SalaryMin, l.SalaryMax, l.ExpiresOn, l.IsActive,
		minQ, prefQ, l.PostedOn)
	return err
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM job_listings WHERE id = $1`, id)
	return scanListing(row)
}

func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM job_listings
ORDER BY posted_on DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ListingRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]listing.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM job_listings
WHERE company_id = $3 ORDER BY posted_on DESC LIMIT $1 OFFSET $2`, limit, offset, companyID)
}

func (r *ListingRepository) list(ctx context.Context, query string, args ...any) ([]listing.Listing, error) {
	if len(args) > 0 {
		if n, ok := args[0].(int); ok && n <= 0 {
			args[0] = 50
		}
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (listing.Listing, error) {
	var l listing.Listing
	var jobType string
	var minQ, prefQ []byte
	var posted time.Time
	if err := row.Scan(&l.ID, &l.CompanyID, &l.Title, &l.Description, &l.CompanyName, &l.Location,
		&jobType, &l.IsRemote, &l.SalaryMin, &l.SalaryMax, &l.ExpiresOn, &l.IsActive,
		&minQ, &prefQ, &posted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return listing.Listing{}, listing.ErrNotFound
		}
		return listing.Listing{}, err
	}
	l.JobType = listing.JobType(jobType)
	l.PostedOn = posted.UTC()
	if err := json.Unmarshal(minQ, &l.MinimumQualifications); err != nil {
		l.MinimumQualifications = []string{}
	}
	if err := json.Unmarshal(prefQ, &l.PreferredQualifications); err != nil {
		l.PreferredQualifications = []string{}
	}
	return l, nil
}
