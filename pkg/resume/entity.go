package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Resume хранит извлечённый текст и ссылку на оригинальный файл.
type Resume struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	FileID      uuid.UUID `json:"fileId"`
	TextContent string    `json:"textContent"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound  = errors.New("resume not found")
	ErrForbidden = errors.New("not authorized for this resume")
	ErrNoText    = errors.New("uploaded resume did not contain any parseable text")
)

// Repository — порт доступа к резюме.
type Repository interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id uuid.UUID) (Resume, error)
	ListAll(ctx context.Context, limit, offset int) ([]Resume, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
