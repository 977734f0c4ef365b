package screen

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EvalStatus — оценка соответствия кандидата одной квалификации.
type EvalStatus string

const (
	EvalHighlyQualified EvalStatus = "HIGHLY_QUALIFIED"
	EvalQualified       EvalStatus = "QUALIFIED"
	EvalMeets           EvalStatus = "MEETS"
	EvalNotQualified    EvalStatus = "NOT_QUALIFIED"
)

// ValidEvalStatus reports whether s is a known evaluation status.
func ValidEvalStatus(s EvalStatus) bool {
	switch s {
	case EvalHighlyQualified, EvalQualified, EvalMeets, EvalNotQualified:
		return true
	}
	return false
}

// Evaluation — оценка одной квалификации с пояснением.
type Evaluation struct {
	Status EvalStatus `json:"status"`
	Reason string     `json:"reason"`
}

// Screen — результат скрининга отклика: по одной оценке на каждую
// квалификацию вакансии, в порядке списков вакансии.
type Screen struct {
	ID                      uuid.UUID    `json:"id"`
	ApplicationID           uuid.UUID    `json:"applicationId"`
	MinimumQualifications   []Evaluation `json:"minimumQualifications"`
	PreferredQualifications []Evaluation `json:"preferredQualifications"`
	Score                   float64      `json:"score"`
	Model                   string       `json:"model"`
	CreatedAt               time.Time    `json:"createdAt"`
	UpdatedAt               time.Time    `json:"updatedAt"`
}

var (
	ErrNotFound   = errors.New("screen not found")
	ErrForbidden  = errors.New("not authorized for this screen")
	ErrNoResume   = errors.New("cannot screen an application without an attached resume")
	ErrNoLists    = errors.New("no screening results provided")
	ErrValidation = errors.New("screen validation failed")
	// ErrStale возвращается, когда правка собрана поверх устаревших данных
	// (sync-подпись клиента не совпала с текущей на сервере).
	ErrStale = errors.New("screen was modified concurrently")
	ErrAgent = errors.New("screening agent failed")
)

// Repository — порт хранения результатов скрининга.
type Repository interface {
	Create(ctx context.Context, s Screen) error
	GetByID(ctx context.Context, id uuid.UUID) (Screen, error)
	GetByApplication(ctx context.Context, applicationID uuid.UUID) (Screen, error)
	ListAll(ctx context.Context, limit, offset int) ([]Screen, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]Screen, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Screen, error)
	Update(ctx context.Context, s Screen) error
}
