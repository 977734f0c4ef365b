package resume

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/auth"
	"github.com/artem13815/ats/pkg/filestore"
)

// UseCase — сценарии загрузки и просмотра резюме.
type UseCase interface {
	Upload(ctx context.Context, sess auth.Session, filename, contentType string, data []byte) (Resume, error)
	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Resume, error)
	List(ctx context.Context, sess auth.Session, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, sess auth.Session, id uuid.UUID) error
}

type service struct {
	repo  Repository
	files filestore.UseCase
}

func NewService(repo Repository, files filestore.UseCase) UseCase {
	return &service{repo: repo, files: files}
}

func (s *service) Upload(ctx context.Context, sess auth.Session, filename, contentType string, data []byte) (Resume, error) {
	text, err := ParseDocumentText(filename, data)
	if err != nil {
		return Resume{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Resume{}, ErrNoText
	}

	stored, err := s.files.Upload(ctx, sess.UserID, filename, contentType, data)
	if err != nil {
		return Resume{}, err
	}

	now := time.Now().UTC()
	r := Resume{
		ID:          uuid.New(),
		UserID:      sess.UserID,
		FileID:      stored.ID,
		TextContent: text,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		// метаданные не записались — подчищаем файл, чтобы не копить сироты
		if derr := s.files.Delete(ctx, sess, stored.ID); derr != nil {
			log.Printf("resume: cleanup of file %s after failed insert: %v", stored.ID, derr)
		}
		return Resume{}, err
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Resume, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if !sess.IsSuperuser && r.UserID != sess.UserID {
		return Resume{}, ErrForbidden
	}
	return r, nil
}

func (s *service) List(ctx context.Context, sess auth.Session, limit, offset int) ([]Resume, error) {
	if sess.IsSuperuser {
		return s.repo.ListAll(ctx, limit, offset)
	}
	return s.repo.ListByUser(ctx, sess.UserID, limit, offset)
}

func (s *service) Delete(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sess.IsSuperuser && r.UserID != sess.UserID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	// original file removal is best effort
	if err := s.files.Delete(ctx, sess, r.FileID); err != nil {
		log.Printf("resume: failed to delete backing file %s: %v", r.FileID, err)
	}
	return nil
}
