package filestore

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

// File is metadata for a stored blob; the bytes live in Storage under StorageKey.
type File struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	StorageKey  string    `json:"-"`
	OwnerID     uuid.UUID `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	ErrNotFound  = errors.New("file not found")
	ErrForbidden = errors.New("not authorized for this file")
)

// Repository persists file metadata.
type Repository interface {
	Create(ctx context.Context, f File) error
	GetByID(ctx context.Context, id uuid.UUID) (File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage persists raw blobs. Save returns the storage key for later retrieval.
type Storage interface {
	Save(key string, data []byte) (string, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}
