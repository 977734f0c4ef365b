package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/ats/pkg/auth"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/resume"
)

// --- in-memory фейки ---

type fakeAppRepo struct {
	items map[uuid.UUID]Application
}

func newFakeAppRepo() *fakeAppRepo { return &fakeAppRepo{items: map[uuid.UUID]Application{}} }

func (f *fakeAppRepo) Create(_ context.Context, a Application) error {
	for _, it := range f.items {
		if it.JobListingID == a.JobListingID && it.ApplicantID == a.ApplicantID {
			return ErrAlreadyApplied
		}
	}
	f.items[a.ID] = a
	return nil
}

func (f *fakeAppRepo) GetByID(_ context.Context, id uuid.UUID) (Application, error) {
	a, ok := f.items[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return a, nil
}

func (f *fakeAppRepo) GetByListingAndApplicant(_ context.Context, listingID, applicantID uuid.UUID) (Application, error) {
	for _, it := range f.items {
		if it.JobListingID == listingID && it.ApplicantID == applicantID {
			return it, nil
		}
	}
	return Application{}, ErrNotFound
}

func (f *fakeAppRepo) ListAll(_ context.Context, _, _ int) ([]Application, error) {
	var out []Application
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeAppRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID, _, _ int) ([]Application, error) {
	var out []Application
	for _, it := range f.items {
		if it.ApplicantID == applicantID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) ListByCompany(_ context.Context, _ uuid.UUID, _, _ int) ([]Application, error) {
	return nil, nil
}

func (f *fakeAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status, updatedAt time.Time) error {
	a, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = updatedAt
	f.items[id] = a
	return nil
}

type fakeListingRepo struct {
	items map[uuid.UUID]listing.Listing
}

func (f *fakeListingRepo) Create(_ context.Context, l listing.Listing) error {
	f.items[l.ID] = l
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	l, ok := f.items[id]
	if !ok {
		return listing.Listing{}, listing.ErrNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) List(_ context.Context, _, _ int) ([]listing.Listing, error) {
	return nil, nil
}

func (f *fakeListingRepo) ListByCompany(_ context.Context, _ uuid.UUID, _, _ int) ([]listing.Listing, error) {
	return nil, nil
}

func (f *fakeListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeResumeRepo struct {
	items map[uuid.UUID]resume.Resume
}

func (f *fakeResumeRepo) Create(_ context.Context, r resume.Resume) error {
	f.items[r.ID] = r
	return nil
}

func (f *fakeResumeRepo) GetByID(_ context.Context, id uuid.UUID) (resume.Resume, error) {
	r, ok := f.items[id]
	if !ok {
		return resume.Resume{}, resume.ErrNotFound
	}
	return r, nil
}

func (f *fakeResumeRepo) ListAll(_ context.Context, _, _ int) ([]resume.Resume, error) {
	return nil, nil
}

func (f *fakeResumeRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]resume.Resume, error) {
	return nil, nil
}

func (f *fakeResumeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

// --- фикстура ---

type fixture struct {
	svc       UseCase
	apps      *fakeAppRepo
	listingID uuid.UUID
	companyID uuid.UUID
	applicant auth.Session
	company   auth.Session
	resumeID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	applicantID := uuid.New()
	companyID := uuid.New()
	listingID := uuid.New()
	resumeID := uuid.New()

	listings := &fakeListingRepo{items: map[uuid.UUID]listing.Listing{
		listingID: {ID: listingID, CompanyID: companyID, Title: "Go Developer", IsActive: true},
	}}
	resumes := &fakeResumeRepo{items: map[uuid.UUID]resume.Resume{
		resumeID: {ID: resumeID, UserID: applicantID},
	}}
	apps := newFakeAppRepo()

	return &fixture{
		svc:       NewService(apps, listings, resumes),
		apps:      apps,
		listingID: listingID,
		companyID: companyID,
		applicant: auth.Session{UserID: applicantID, Role: auth.RoleApplicant},
		company:   auth.Session{UserID: companyID, Role: auth.RoleCompany},
		resumeID:  resumeID,
	}
}

func (f *fixture) submit(t *testing.T) Application {
	t.Helper()
	a, err := f.svc.Submit(context.Background(), f.applicant, SubmitInput{
		JobListingID: f.listingID,
		ResumeID:     &f.resumeID,
	})
	require.NoError(t, err)
	return a
}

// --- тесты ---

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	a := f.submit(t)
	assert.Equal(t, StatusSubmitted, a.Status)
	assert.Equal(t, f.applicant.UserID, a.ApplicantID)
}

func TestSubmitDuplicate(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	_, err := f.svc.Submit(context.Background(), f.applicant, SubmitInput{JobListingID: f.listingID})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestSubmitByCompanyForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.company, SubmitInput{JobListingID: f.listingID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitForeignResume(t *testing.T) {
	f := newFixture(t)
	other := auth.Session{UserID: uuid.New(), Role: auth.RoleApplicant}

	_, err := f.svc.Submit(context.Background(), other, SubmitInput{
		JobListingID: f.listingID,
		ResumeID:     &f.resumeID,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitInactiveListing(t *testing.T) {
	f := newFixture(t)
	inactive := uuid.New()
	listings := &fakeListingRepo{items: map[uuid.UUID]listing.Listing{
		inactive: {ID: inactive, CompanyID: f.companyID, IsActive: false},
	}}
	svc := NewService(newFakeAppRepo(), listings, &fakeResumeRepo{items: map[uuid.UUID]resume.Resume{}})

	_, err := svc.Submit(context.Background(), f.applicant, SubmitInput{JobListingID: inactive})
	assert.ErrorIs(t, err, ErrListingInactive)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)
	ctx := context.Background()

	a2, err := f.svc.UpdateStatus(ctx, f.company, a.ID, StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, a2.Status)

	a3, err := f.svc.UpdateStatus(ctx, f.company, a.ID, StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, StatusInterview, a3.Status)

	a4, err := f.svc.UpdateStatus(ctx, f.company, a.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, a4.Status)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.company, a.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)

	got, err := f.svc.UpdateStatus(context.Background(), f.company, a.ID, StatusSubmitted)
	require.NoError(t, err)
	assert.Equal(t, a.Status, got.Status)
	assert.Equal(t, a.UpdatedAt, got.UpdatedAt)
}

func TestUpdateStatusTerminal(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, f.company, a.ID, StatusRejected)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.company, a.ID, StatusUnderReview)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUpdateStatusOnlyOwningCompany(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)
	stranger := auth.Session{UserID: uuid.New(), Role: auth.RoleCompany}

	_, err := f.svc.UpdateStatus(context.Background(), stranger, a.ID, StatusUnderReview)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)

	_, err := f.svc.UpdateStatus(context.Background(), f.company, a.ID, Status("MAYBE"))
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)

	got, err := f.svc.Withdraw(context.Background(), f.applicant, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, got.Status)

	// повторный Withdraw не ошибка
	again, err := f.svc.Withdraw(context.Background(), f.applicant, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, again.Status)
}

func TestWithdrawByCompanyForbidden(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)

	_, err := f.svc.Withdraw(context.Background(), f.company, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetVisibility(t *testing.T) {
	f := newFixture(t)
	a := f.submit(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.applicant, a.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, f.company, a.ID)
	assert.NoError(t, err)

	stranger := auth.Session{UserID: uuid.New(), Role: auth.RoleApplicant}
	_, err = f.svc.Get(ctx, stranger, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := auth.Session{UserID: uuid.New(), Role: auth.RoleApplicant, IsSuperuser: true}
	_, err = f.svc.Get(ctx, admin, a.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, f.applicant, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
