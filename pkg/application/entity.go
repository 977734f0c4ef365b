package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status — этап воронки отклика.
type Status string

const (
	StatusSubmitted   Status = "SUBMITTED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusInterview   Status = "INTERVIEW"
	StatusAccepted    Status = "ACCEPTED"
	StatusRejected    Status = "REJECTED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// ValidStatus reports whether s is a known pipeline status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInterview, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Application — отклик соискателя на вакансию.
type Application struct {
	ID           uuid.UUID  `json:"id"`
	JobListingID uuid.UUID  `json:"jobListingId"`
	ApplicantID  uuid.UUID  `json:"applicantId"`
	ResumeID     *uuid.UUID `json:"resumeId,omitempty"`
	CoverLetter  string     `json:"coverLetter,omitempty"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

var (
	ErrNotFound          = errors.New("application not found")
	ErrForbidden         = errors.New("not authorized for this application")
	ErrAlreadyApplied    = errors.New("already applied to this job listing")
	ErrListingInactive   = errors.New("job listing is no longer accepting applications")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Repository — порт доступа к откликам.
type Repository interface {
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	GetByListingAndApplicant(ctx context.Context, listingID, applicantID uuid.UUID) (Application, error)
	ListAll(ctx context.Context, limit, offset int) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]Application, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, updatedAt time.Time) error
}
