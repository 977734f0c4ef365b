package screen

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/ats/pkg/application"
	"github.com/artem13815/ats/pkg/auth"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/resume"
)

// --- фейки ---

type memScreenRepo struct {
	items     map[uuid.UUID]Screen
	lookupErr error
}

func newMemScreenRepo() *memScreenRepo { return &memScreenRepo{items: map[uuid.UUID]Screen{}} }

func (m *memScreenRepo) Create(_ context.Context, s Screen) error {
	m.items[s.ID] = s
	return nil
}

func (m *memScreenRepo) GetByID(_ context.Context, id uuid.UUID) (Screen, error) {
	s, ok := m.items[id]
	if !ok {
		return Screen{}, ErrNotFound
	}
	return s, nil
}

func (m *memScreenRepo) GetByApplication(_ context.Context, applicationID uuid.UUID) (Screen, error) {
	if m.lookupErr != nil {
		return Screen{}, m.lookupErr
	}
	for _, s := range m.items {
		if s.ApplicationID == applicationID {
			return s, nil
		}
	}
	return Screen{}, ErrNotFound
}

func (m *memScreenRepo) ListAll(_ context.Context, _, _ int) ([]Screen, error) { return nil, nil }

func (m *memScreenRepo) ListByApplicant(_ context.Context, _ uuid.UUID, _, _ int) ([]Screen, error) {
	return nil, nil
}

func (m *memScreenRepo) ListByCompany(_ context.Context, _ uuid.UUID, _, _ int) ([]Screen, error) {
	return nil, nil
}

func (m *memScreenRepo) Update(_ context.Context, s Screen) error {
	if _, ok := m.items[s.ID]; !ok {
		return ErrNotFound
	}
	m.items[s.ID] = s
	return nil
}

type memAppRepo struct {
	items map[uuid.UUID]application.Application
}

func (m *memAppRepo) Create(_ context.Context, a application.Application) error {
	m.items[a.ID] = a
	return nil
}

func (m *memAppRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	a, ok := m.items[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (m *memAppRepo) GetByListingAndApplicant(_ context.Context, _, _ uuid.UUID) (application.Application, error) {
	return application.Application{}, application.ErrNotFound
}

func (m *memAppRepo) ListAll(_ context.Context, _, _ int) ([]application.Application, error) {
	return nil, nil
}

func (m *memAppRepo) ListByApplicant(_ context.Context, _ uuid.UUID, _, _ int) ([]application.Application, error) {
	return nil, nil
}

func (m *memAppRepo) ListByCompany(_ context.Context, _ uuid.UUID, _, _ int) ([]application.Application, error) {
	return nil, nil
}

func (m *memAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status application.Status, updatedAt time.Time) error {
	a, ok := m.items[id]
	if !ok {
		return application.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = updatedAt
	m.items[id] = a
	return nil
}

type memListingRepo struct {
	items map[uuid.UUID]listing.Listing
}

func (m *memListingRepo) Create(_ context.Context, l listing.Listing) error {
	m.items[l.ID] = l
	return nil
}

func (m *memListingRepo) GetByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	l, ok := m.items[id]
	if !ok {
		return listing.Listing{}, listing.ErrNotFound
	}
	return l, nil
}

func (m *memListingRepo) List(_ context.Context, _, _ int) ([]listing.Listing, error) {
	return nil, nil
}

func (m *memListingRepo) ListByCompany(_ context.Context, _ uuid.UUID, _, _ int) ([]listing.Listing, error) {
	return nil, nil
}

func (m *memListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type memResumeRepo struct {
	items map[uuid.UUID]resume.Resume
}

func (m *memResumeRepo) Create(_ context.Context, r resume.Resume) error {
	m.items[r.ID] = r
	return nil
}

func (m *memResumeRepo) GetByID(_ context.Context, id uuid.UUID) (resume.Resume, error) {
	r, ok := m.items[id]
	if !ok {
		return resume.Resume{}, resume.ErrNotFound
	}
	return r, nil
}

func (m *memResumeRepo) ListAll(_ context.Context, _, _ int) ([]resume.Resume, error) {
	return nil, nil
}

func (m *memResumeRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]resume.Resume, error) {
	return nil, nil
}

func (m *memResumeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type scriptedLLM struct {
	reply string
	err   error
}

func (s scriptedLLM) Ask(_ context.Context, _, _ string) (string, error) {
	return s.reply, s.err
}

// --- фикстура ---

type fixture struct {
	screens   *memScreenRepo
	apps      *memAppRepo
	appID     uuid.UUID
	applicant auth.Session
	company   auth.Session
}

// newFixture готовит отклик с резюме на вакансию с двумя обязательными и
// одним предпочтительным требованием.
func newFixture(t *testing.T, model scriptedLLM) (UseCase, *fixture) {
	t.Helper()
	applicantID := uuid.New()
	companyID := uuid.New()
	listingID := uuid.New()
	resumeID := uuid.New()
	appID := uuid.New()

	listings := &memListingRepo{items: map[uuid.UUID]listing.Listing{
		listingID: {
			ID:                      listingID,
			CompanyID:               companyID,
			Title:                   "Go Developer",
			Description:             "бэкенд на Go",
			MinimumQualifications:   []string{"Go", "PostgreSQL"},
			PreferredQualifications: []string{"Docker"},
			IsActive:                true,
		},
	}}
	resumes := &memResumeRepo{items: map[uuid.UUID]resume.Resume{
		resumeID: {
			ID:          resumeID,
			UserID:      applicantID,
			TextContent: "Три года пишу на Go, проектировал схемы в PostgreSQL.",
		},
	}}
	apps := &memAppRepo{items: map[uuid.UUID]application.Application{
		appID: {
			ID:           appID,
			JobListingID: listingID,
			ApplicantID:  applicantID,
			ResumeID:     &resumeID,
			Status:       application.StatusSubmitted,
		},
	}}
	screens := newMemScreenRepo()

	svc := NewService(screens, apps, listings, resumes, model, "test-model")
	return svc, &fixture{
		screens:   screens,
		apps:      apps,
		appID:     appID,
		applicant: auth.Session{UserID: applicantID, Role: auth.RoleApplicant},
		company:   auth.Session{UserID: companyID, Role: auth.RoleCompany},
	}
}

// --- тесты ---

func TestCreateWithAgent(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{reply: `{
		"minimum_qualifications": [
			{"status": "HIGHLY_QUALIFIED", "reason": "три года на Go"},
			{"status": "QUALIFIED", "reason": "проектировал схемы в PostgreSQL"}
		],
		"preferred_qualifications": [
			{"status": "NOT_QUALIFIED", "reason": "Docker не упомянут"}
		]
	}`})

	sc, err := svc.Create(context.Background(), f.applicant, f.appID)
	require.NoError(t, err)

	require.Len(t, sc.MinimumQualifications, 2)
	require.Len(t, sc.PreferredQualifications, 1)
	assert.Equal(t, EvalHighlyQualified, sc.MinimumQualifications[0].Status)
	assert.Equal(t, "test-model", sc.Model)
	// min 4*2+3*2=14 из 16, pref 0 из 4 → 14/20 = 70%
	assert.Equal(t, 70.0, sc.Score)

	// отклик перешёл в ревью
	a, _ := f.apps.GetByID(context.Background(), f.appID)
	assert.Equal(t, application.StatusUnderReview, a.Status)
}

func TestCreateIdempotent(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{reply: `{"minimum_qualifications":[],"preferred_qualifications":[]}`})
	ctx := context.Background()

	first, err := svc.Create(ctx, f.applicant, f.appID)
	require.NoError(t, err)

	second, err := svc.Create(ctx, f.applicant, f.appID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.screens.items, 1)
}

func TestCreateStorageErrorIsNotTreatedAsMissingScreen(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{reply: `{"minimum_qualifications":[],"preferred_qualifications":[]}`})
	dbErr := errors.New("connection reset")
	f.screens.lookupErr = dbErr

	_, err := svc.Create(context.Background(), f.applicant, f.appID)
	require.ErrorIs(t, err, dbErr)
	// новый скрининг не запускается, пока хранилище недоступно
	assert.Empty(t, f.screens.items)
}

func TestSaveManualStorageErrorPropagates(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})
	dbErr := errors.New("connection reset")
	f.screens.lookupErr = dbErr

	_, err := svc.SaveManual(context.Background(), f.company, f.appID, ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalQualified, Reason: "x"},
			{Status: EvalQualified, Reason: "y"},
		},
	})
	require.ErrorIs(t, err, dbErr)
	assert.Empty(t, f.screens.items)
}

func TestCutText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "короче лимита", in: "abc", max: 10, want: "abc"},
		{name: "ascii по лимиту", in: "abcdef", max: 3, want: "abc"},
		{name: "кириллица, граница внутри руны", in: "привет", max: 5, want: "пр"},
		{name: "кириллица, граница между рунами", in: "привет", max: 4, want: "пр"},
		{name: "лимит меньше первой руны", in: "ж", max: 1, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cutText(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestCreateKeywordFallback(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{err: errors.New("llm down")})

	sc, err := svc.Create(context.Background(), f.applicant, f.appID)
	require.NoError(t, err)

	require.Len(t, sc.MinimumQualifications, 2)
	assert.Equal(t, EvalQualified, sc.MinimumQualifications[0].Status)  // "go" в тексте
	assert.Equal(t, EvalQualified, sc.MinimumQualifications[1].Status)  // "postgresql" в тексте
	assert.Equal(t, EvalNotQualified, sc.PreferredQualifications[0].Status)
	assert.Empty(t, sc.Model)
}

func TestCreateAgentAlignsShortAnswer(t *testing.T) {
	// модель вернула одну оценку на два требования: вторая строка добивается
	// NOT_QUALIFIED, длина всегда равна числу требований
	svc, f := newFixture(t, scriptedLLM{reply: `{
		"minimum_qualifications": [{"status": "QUALIFIED", "reason": "Go есть"}],
		"preferred_qualifications": []
	}`})

	sc, err := svc.Create(context.Background(), f.applicant, f.appID)
	require.NoError(t, err)
	require.Len(t, sc.MinimumQualifications, 2)
	assert.Equal(t, EvalQualified, sc.MinimumQualifications[0].Status)
	assert.Equal(t, EvalNotQualified, sc.MinimumQualifications[1].Status)
}

func TestCreateRequiresResume(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})
	a := f.apps.items[f.appID]
	a.ResumeID = nil
	f.apps.items[f.appID] = a

	_, err := svc.Create(context.Background(), f.applicant, f.appID)
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestCreateForbiddenForStranger(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})
	stranger := auth.Session{UserID: uuid.New(), Role: auth.RoleApplicant}

	_, err := svc.Create(context.Background(), stranger, f.appID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSaveManualCreatesAndScores(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})

	sc, err := svc.SaveManual(context.Background(), f.company, f.appID, ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalHighlyQualified, Reason: "опыт подтверждён"},
			{Status: EvalMeets, Reason: "частично"},
		},
		HasPreferred:            true,
		PreferredQualifications: []Evaluation{{Status: EvalNotQualified, Reason: ""}},
	})
	require.NoError(t, err)
	// min 4*2+2*2=12 из 16, pref 0 из 4 → 60%
	assert.Equal(t, 60.0, sc.Score)

	a, _ := f.apps.GetByID(context.Background(), f.appID)
	assert.Equal(t, application.StatusUnderReview, a.Status)
}

func TestSaveManualValidation(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})

	_, err := svc.SaveManual(context.Background(), f.company, f.appID, ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalQualified, Reason: "ok"},
			{}, // вторая строка без статуса
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []int{1}, verr.MissingMinimum)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveManualNoLists(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})

	_, err := svc.SaveManual(context.Background(), f.company, f.appID, ManualUpdate{})
	assert.ErrorIs(t, err, ErrNoLists)
}

func TestSaveManualOnlyCompanyOwner(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})

	_, err := svc.SaveManual(context.Background(), f.applicant, f.appID, ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalQualified}, {Status: EvalQualified},
		},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSaveManualStaleSignature(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})
	upd := ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalQualified, Reason: "a"},
			{Status: EvalQualified, Reason: "b"},
		},
	}

	_, err := svc.SaveManual(context.Background(), f.company, f.appID, upd)
	require.NoError(t, err)

	// подпись, снятая до первой правки, уже устарела
	upd.SyncSignature = Signature([]string{"Go", "PostgreSQL"}, []string{"Docker"}, nil, nil)
	_, err = svc.SaveManual(context.Background(), f.company, f.appID, upd)
	assert.ErrorIs(t, err, ErrStale)
}

func TestSaveManualFreshSignature(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})
	ctx := context.Background()
	upd := ManualUpdate{
		HasMinimum: true,
		MinimumQualifications: []Evaluation{
			{Status: EvalQualified, Reason: "a"},
			{Status: EvalQualified, Reason: "b"},
		},
	}
	_, err := svc.SaveManual(ctx, f.company, f.appID, upd)
	require.NoError(t, err)

	cmp, err := svc.Compare(ctx, f.company, f.appID)
	require.NoError(t, err)

	upd.SyncSignature = cmp.SyncSignature
	upd.MinimumQualifications[0].Status = EvalHighlyQualified
	_, err = svc.SaveManual(ctx, f.company, f.appID, upd)
	assert.NoError(t, err)
}

func TestCompareWithoutScreen(t *testing.T) {
	svc, f := newFixture(t, scriptedLLM{})

	cmp, err := svc.Compare(context.Background(), f.applicant, f.appID)
	require.NoError(t, err)

	require.Len(t, cmp.MinimumRows, 2)
	require.Len(t, cmp.PreferredRows, 1)
	assert.Equal(t, "Go", cmp.MinimumRows[0].Requirement)
	assert.Empty(t, string(cmp.MinimumRows[0].Status))
	assert.Equal(t, 0.0, cmp.Breakdown.MatchPercentage)
	assert.NotEmpty(t, cmp.SyncSignature)
}
