package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/auth"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/resume"
)

// SubmitInput — данные нового отклика.
type SubmitInput struct {
	JobListingID uuid.UUID
	ResumeID     *uuid.UUID
	CoverLetter  string
}

// UseCase — сценарии работы с откликами.
type UseCase interface {
	Submit(ctx context.Context, sess auth.Session, in SubmitInput) (Application, error)
	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Application, error)
	List(ctx context.Context, sess auth.Session, limit, offset int) ([]Application, error)
	// UpdateStatus выполняет переход статуса по правилам воронки.
	// Переход из того же статуса в тот же — no-op, вернётся текущая запись.
	UpdateStatus(ctx context.Context, sess auth.Session, id uuid.UUID, newStatus Status) (Application, error)
	Withdraw(ctx context.Context, sess auth.Session, id uuid.UUID) (Application, error)
}

type service struct {
	repo     Repository
	listings listing.Repository
	resumes  resume.Repository
}

func NewService(repo Repository, listings listing.Repository, resumes resume.Repository) UseCase {
	return &service{repo: repo, listings: listings, resumes: resumes}
}

func (s *service) Submit(ctx context.Context, sess auth.Session, in SubmitInput) (Application, error) {
	if !sess.IsSuperuser && !sess.IsApplicant() {
		return Application{}, fmt.Errorf("%w: only applicants may submit applications", ErrForbidden)
	}
	l, err := s.listings.GetByID(ctx, in.JobListingID)
	if err != nil {
		return Application{}, listing.ErrNotFound
	}
	if !l.IsActive {
		return Application{}, ErrListingInactive
	}
	if in.ResumeID != nil {
		r, err := s.resumes.GetByID(ctx, *in.ResumeID)
		if err != nil {
			return Application{}, resume.ErrNotFound
		}
		if !sess.IsSuperuser && r.UserID != sess.UserID {
			return Application{}, fmt.Errorf("%w: resume belongs to another user", ErrForbidden)
		}
	}
	if _, err := s.repo.GetByListingAndApplicant(ctx, in.JobListingID, sess.UserID); err == nil {
		return Application{}, ErrAlreadyApplied
	}

	now := time.Now().UTC()
	a := Application{
		ID:           uuid.New(),
		JobListingID: in.JobListingID,
		ApplicantID:  sess.UserID,
		ResumeID:     in.ResumeID,
		CoverLetter:  in.CoverLetter,
		Status:       StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, sess, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

// authorize пропускает суперпользователя, автора отклика и компанию-владельца вакансии.
func (s *service) authorize(ctx context.Context, sess auth.Session, a Application) error {
	if sess.IsSuperuser || a.ApplicantID == sess.UserID {
		return nil
	}
	l, err := s.listings.GetByID(ctx, a.JobListingID)
	if err == nil && l.CompanyID == sess.UserID {
		return nil
	}
	return ErrForbidden
}

func (s *service) List(ctx context.Context, sess auth.Session, limit, offset int) ([]Application, error) {
	switch {
	case sess.IsSuperuser:
		return s.repo.ListAll(ctx, limit, offset)
	case sess.IsCompany():
		return s.repo.ListByCompany(ctx, sess.UserID, limit, offset)
	default:
		return s.repo.ListByApplicant(ctx, sess.UserID, limit, offset)
	}
}

func (s *service) UpdateStatus(ctx context.Context, sess auth.Session, id uuid.UUID, newStatus Status) (Application, error) {
	if !ValidStatus(newStatus) {
		return Application{}, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, newStatus)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if a.Status == newStatus {
		return a, nil
	}
	if IsTerminal(a.Status) {
		return Application{}, fmt.Errorf("%w: application is in a terminal state", ErrIllegalTransition)
	}
	if !CanTransition(a.Status, newStatus) {
		return Application{}, fmt.Errorf("%w: cannot move from %s to %s", ErrIllegalTransition, a.Status, newStatus)
	}
	if !sess.IsSuperuser {
		l, err := s.listings.GetByID(ctx, a.JobListingID)
		if err != nil || l.CompanyID != sess.UserID {
			return Application{}, fmt.Errorf("%w: only the owning company may change the status", ErrForbidden)
		}
	}
	return s.persistStatus(ctx, a, newStatus)
}

func (s *service) Withdraw(ctx context.Context, sess auth.Session, id uuid.UUID) (Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if !sess.IsSuperuser && a.ApplicantID != sess.UserID {
		return Application{}, fmt.Errorf("%w: only the applicant may withdraw", ErrForbidden)
	}
	if a.Status == StatusWithdrawn {
		return a, nil
	}
	return s.persistStatus(ctx, a, StatusWithdrawn)
}

func (s *service) persistStatus(ctx context.Context, a Application, newStatus Status) (Application, error) {
	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, a.ID, newStatus, now); err != nil {
		return Application{}, err
	}
	a.Status = newStatus
	a.UpdatedAt = now
	return a, nil
}
