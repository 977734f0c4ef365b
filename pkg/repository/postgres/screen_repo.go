package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/ats/pkg/screen"
)

// ScreenRepository хранит результаты скрининга. На один отклик — не
// больше одного скрина; списки оценок лежат в JSONB, чтобы сохранить
// порядок квалификаций вакансии.
type ScreenRepository struct {
	pool *pgxpool.Pool
}

func NewScreenRepository(pool *pgxpool.Pool) (*ScreenRepository, error) {
	r := &ScreenRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ScreenRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS application_screens (
	id UUID PRIMARY KEY,
	application_id UUID NOT NULL UNIQUE REFERENCES job_applications(id) ON DELETE CASCADE,
	minimum_qualifications JSONB NOT NULL DEFAULT '[]',
	preferred_qualifications JSONB NOT NULL DEFAULT '[]',
	score NUMERIC(5,2) NOT NULL DEFAULT 0,
	model TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

const screenColumns = `id, application_id, minimum_qualifications, preferred_qualifications, score, model, created_at, updated_at`

func (r *ScreenRepository) Create(ctx context.Context, s screen.Screen) error {
	minJSON, prefJSON, err := marshalEvals(s)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO application_screens (`+screenColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, s.ID, s.ApplicationID, minJSON, prefJSON, s.Score, s.Model, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ScreenRepository) Update(ctx context.Context, s screen.Screen) error {
	minJSON, prefJSON, err := marshalEvals(s)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE application_screens
SET minimum_qualifications = $2, preferred_qualifications = $3, score = $4, model = $5, updated_at = $6
WHERE id = $1
`, s.ID, minJSON, prefJSON, s.Score, s.Model, s.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return screen.ErrNotFound
	}
	return nil
}

func (r *ScreenRepository) GetByID(ctx context.Context, id uuid.UUID) (screen.Screen, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+screenColumns+` FROM application_screens WHERE id = $1`, id)
	return scanScreen(row)
}

func (r *ScreenRepository) GetByApplication(ctx context.Context, applicationID uuid.UUID) (screen.Screen, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+screenColumns+` FROM application_screens WHERE application_id = $1`, applicationID)
	return scanScreen(row)
}

func (r *ScreenRepository) ListAll(ctx context.Context, limit, offset int) ([]screen.Screen, error) {
	return r.list(ctx, `SELECT `+screenColumns+` FROM application_screens
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ScreenRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]screen.Screen, error) {
	return r.list(ctx, `
SELECT s.id, s.application_id, s.minimum_qualifications, s.preferred_qualifications, s.score, s.model, s.created_at, s.updated_at
FROM application_screens s
JOIN job_applications a ON a.id = s.application_id
WHERE a.applicant_id = $3
ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`, limit, offset, applicantID)
}

func (r *ScreenRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]screen.Screen, error) {
	return r.list(ctx, `
SELECT s.id, s.application_id, s.minimum_qualifications, s.preferred_qualifications, s.score, s.model, s.created_at, s.updated_at
FROM application_screens s
JOIN job_applications a ON a.id = s.application_id
JOIN job_listings l ON l.id = a.job_listing_id
WHERE l.company_id = $3
ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`, limit, offset, companyID)
}

func (r *ScreenRepository) list(ctx context.Context, query string, args ...any) ([]screen.Screen, error) {
	if n, ok := args[0].(int); ok && n <= 0 {
		args[0] = 50
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []screen.Screen
	for rows.Next() {
		s, err := scanScreen(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func marshalEvals(s screen.Screen) ([]byte, []byte, error) {
	min := s.MinimumQualifications
	if min == nil {
		min = []screen.Evaluation{}
	}
	pref := s.PreferredQualifications
	if pref == nil {
		pref = []screen.Evaluation{}
	}
	minJSON, err := json.Marshal(min)
	if err != nil {
		return nil, nil, err
	}
	prefJSON, err := json.Marshal(pref)
	if err != nil {
		return nil, nil, err
	}
	return minJSON, prefJSON, nil
}

func scanScreen(row pgx.Row) (screen.Screen, error) {
	var s screen.Screen
	var minJSON, prefJSON []byte
	var model *string
	var created, updated time.Time
	if err := row.Scan(&s.ID, &s.ApplicationID, &minJSON, &prefJSON, &s.Score,
		&model, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return screen.Screen{}, screen.ErrNotFound
		}
		return screen.Screen{}, err
	}
	if err := json.Unmarshal(minJSON, &s.MinimumQualifications); err != nil {
		return screen.Screen{}, err
	}
	if err := json.Unmarshal(prefJSON, &s.PreferredQualifications); err != nil {
		return screen.Screen{}, err
	}
	if model != nil {
		s.Model = *model
	}
	s.CreatedAt = created.UTC()
	s.UpdatedAt = updated.UTC()
	return s, nil
}
