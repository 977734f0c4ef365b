package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobType — код типа занятости.
type JobType string

const (
	JobTypeFullTime   JobType = "FT"
	JobTypePartTime   JobType = "PT"
	JobTypeContract   JobType = "CO"
	JobTypeInternship JobType = "IN"
	JobTypeTemporary  JobType = "TE"
)

// ValidJobType reports whether t is a known employment type code.
func ValidJobType(t JobType) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeTemporary:
		return true
	}
	return false
}

// Listing описывает вакансию с упорядоченными списками квалификаций.
type Listing struct {
	ID                      uuid.UUID  `json:"id"`
	CompanyID               uuid.UUID  `json:"companyId"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	CompanyName             string     `json:"companyName"`
	Location                string     `json:"location"`
	JobType                 JobType    `json:"jobType"`
	IsRemote                bool       `json:"isRemote"`
	SalaryMin               *float64   `json:"salaryMin,omitempty"`
	SalaryMax               *float64   `json:"salaryMax,omitempty"`
	ExpiresOn               *time.Time `json:"expiresOn,omitempty"`
	IsActive                bool       `json:"isActive"`
	MinimumQualifications   []string   `json:"minimumQualifications"`
	PreferredQualifications []string   `json:"preferredQualifications"`
	PostedOn                time.Time  `json:"postedOn"`
}

var (
	ErrNotFound   = errors.New("listing not found")
	ErrValidation = errors.New("listing validation failed")
)

// Repository — порт для работы с вакансиями.
type Repository interface {
	Create(ctx context.Context, l Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
