package filestore

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/auth"
)

// UseCase orchestrates blob storage and metadata for uploaded originals.
type UseCase interface {
	Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, data []byte) (File, error)
	// Retrieve returns metadata and an open stream; the caller closes the stream.
	Retrieve(ctx context.Context, sess auth.Session, id uuid.UUID) (File, io.ReadCloser, error)
	Delete(ctx context.Context, sess auth.Session, id uuid.UUID) error
}

type service struct {
	repo    Repository
	storage Storage
}

func NewService(repo Repository, storage Storage) UseCase {
	return &service{repo: repo, storage: storage}
}

func (s *service) Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, data []byte) (File, error) {
	id := uuid.New()
	key, err := s.storage.Save(id.String(), data)
	if err != nil {
		return File{}, err
	}
	f := File{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		StorageKey:  key,
		OwnerID:     owner,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		// blob without metadata is unreachable; best-effort cleanup
		if derr := s.storage.Delete(key); derr != nil {
			log.Printf("filestore: cleanup of %s after failed metadata insert: %v", key, derr)
		}
		return File{}, err
	}
	return f, nil
}

func (s *service) Retrieve(ctx context.Context, sess auth.Session, id uuid.UUID) (File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return File{}, nil, err
	}
	if !sess.IsSuperuser && f.OwnerID != sess.UserID {
		return File{}, nil, ErrForbidden
	}
	rc, err := s.storage.Open(f.StorageKey)
	if err != nil {
		return File{}, nil, err
	}
	return f, rc, nil
}

func (s *service) Delete(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sess.IsSuperuser && f.OwnerID != sess.UserID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(f.StorageKey); err != nil {
		log.Printf("filestore: failed to delete blob %s after metadata removal: %v", f.StorageKey, err)
	}
	return nil
}
