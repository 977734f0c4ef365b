package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/ats/pkg/filestore"
)

// FileRepository keeps metadata for uploaded blobs. The blobs themselves
// live in filestore.Storage.
type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) (*FileRepository, error) {
	r := &FileRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS files (
	id UUID PRIMARY KEY,
	filename TEXT NOT NULL,
	content_type TEXT,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	storage_key TEXT NOT NULL,
	owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *FileRepository) Create(ctx context.Context, f filestore.File) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO files (id, filename, content_type, size_bytes, storage_key, owner_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, f.ID, f.Filename, f.ContentType, f.SizeBytes, f.StorageKey, f.OwnerID, f.CreatedAt)
	return err
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (filestore.File, error) {
	var f filestore.File
	var contentType *string
	var created time.Time
	err := r.pool.QueryRow(ctx, `
SELECT id, filename, content_type, size_bytes, storage_key, owner_id, created_at
FROM files WHERE id = $1
`, id).Scan(&f.ID, &f.Filename, &contentType, &f.SizeBytes, &f.StorageKey, &f.OwnerID, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return filestore.File{}, filestore.ErrNotFound
		}
		return filestore.File{}, err
	}
	if contentType != nil {
		f.ContentType = *contentType
	}
	f.CreatedAt = created.UTC()
	return f, nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return filestore.ErrNotFound
	}
	return nil
}
