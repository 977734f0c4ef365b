package screen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/application"
	"github.com/artem13815/ats/pkg/auth"
	"github.com/artem13815/ats/pkg/listing"
	"github.com/artem13815/ats/pkg/llm"
	"github.com/artem13815/ats/pkg/nlp"
	"github.com/artem13815/ats/pkg/resume"
)

// ManualUpdate — ручная правка результатов скрининга. nil-список означает
// "не менять"; SyncSignature — подпись состояния, поверх которого собиралась
// правка (пустая строка отключает проверку).
type ManualUpdate struct {
	MinimumQualifications   []Evaluation
	PreferredQualifications []Evaluation
	HasMinimum              bool
	HasPreferred            bool
	SyncSignature           string
}

// Comparison — результат сравнения требований вакансии с оценками скрининга,
// готовый к отрисовке: строки выровнены по спискам вакансии.
type Comparison struct {
	MinimumRows   []Row          `json:"minimumRows"`
	PreferredRows []Row          `json:"preferredRows"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	SyncSignature string         `json:"syncSignature"`
}

// UseCase — сценарии скрининга откликов.
type UseCase interface {
	// Create запускает AI-скрининг отклика. Повторный вызов для уже
	// отскринённого отклика идемпотентен и возвращает существующий результат.
	Create(ctx context.Context, sess auth.Session, applicationID uuid.UUID) (Screen, error)
	Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Screen, error)
	List(ctx context.Context, sess auth.Session, limit, offset int) ([]Screen, error)
	// SaveManual создаёт или правит результаты скрининга вручную.
	SaveManual(ctx context.Context, sess auth.Session, applicationID uuid.UUID, upd ManualUpdate) (Screen, error)
	// Compare строит выровненные строки "требование ↔ оценка" для отклика.
	Compare(ctx context.Context, sess auth.Session, applicationID uuid.UUID) (Comparison, error)
}

type service struct {
	repo         Repository
	applications application.Repository
	listings     listing.Repository
	resumes      resume.Repository
	llm          llm.ChatModel
	modelName    string
	maxTextLen   int
}

func NewService(repo Repository, apps application.Repository, listings listing.Repository, resumes resume.Repository, model llm.ChatModel, modelName string) UseCase {
	return &service{
		repo:         repo,
		applications: apps,
		listings:     listings,
		resumes:      resumes,
		llm:          model,
		modelName:    modelName,
		maxTextLen:   12_000,
	}
}

func (s *service) Create(ctx context.Context, sess auth.Session, applicationID uuid.UUID) (Screen, error) {
	a, l, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return Screen{}, err
	}
	if !sess.IsSuperuser && a.ApplicantID != sess.UserID && l.CompanyID != sess.UserID {
		return Screen{}, ErrForbidden
	}
	if a.ResumeID == nil {
		return Screen{}, ErrNoResume
	}
	r, err := s.resumes.GetByID(ctx, *a.ResumeID)
	if err != nil {
		return Screen{}, resume.ErrNotFound
	}

	// идемпотентность: один скрининг на отклик
	existing, err := s.repo.GetByApplication(ctx, a.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Screen{}, err
	}

	text := cutText(strings.TrimSpace(r.TextContent), s.maxTextLen)

	minEvals, prefEvals, modelUsed := s.evaluate(ctx, l, text)

	now := time.Now().UTC()
	sc := Screen{
		ID:                      uuid.New(),
		ApplicationID:           a.ID,
		MinimumQualifications:   minEvals,
		PreferredQualifications: prefEvals,
		Model:                   modelUsed,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	sc.Score = ComputeScore(sc).MatchPercentage

	if err := s.repo.Create(ctx, sc); err != nil {
		return Screen{}, err
	}
	s.moveUnderReview(ctx, a)
	return sc, nil
}

// evaluate запрашивает оценку у LLM; при любой ошибке деградирует до
// детерминированного сопоставления по ключевым словам.
func (s *service) evaluate(ctx context.Context, l listing.Listing, resumeText string) (minEvals, prefEvals []Evaluation, modelUsed string) {
	if s.llm != nil {
		payload, err := s.askAgent(ctx, l, resumeText)
		if err == nil {
			minEvals = alignEvals(l.MinimumQualifications, payload.MinimumQualifications)
			prefEvals = alignEvals(l.PreferredQualifications, payload.PreferredQualifications)
			return minEvals, prefEvals, s.modelName
		}
	}
	normalized := nlp.Normalize(resumeText)
	return keywordEvals(l.MinimumQualifications, normalized),
		keywordEvals(l.PreferredQualifications, normalized),
		""
}

type agentPayload struct {
	MinimumQualifications   []Evaluation `json:"minimum_qualifications"`
	PreferredQualifications []Evaluation `json:"preferred_qualifications"`
}

func (s *service) askAgent(ctx context.Context, l listing.Listing, resumeText string) (agentPayload, error) {
	system := "Ты HR-аналитик. Оцени соответствие кандидата требованиям вакансии по тексту резюме. Верни результат СТРОГО в JSON без markdown и пояснений. Статусы: HIGHLY_QUALIFIED, QUALIFIED, MEETS, NOT_QUALIFIED. Не выдумывай факты."
	user := fmt.Sprintf(
		"Вакансия:\nНазвание: %s\nОписание: %s\n\nОбязательные требования:\n%s\n\nЖелательные требования:\n%s\n\nТекст резюме:\n<<<\n%s\n>>>\n\nВерни JSON:\n{\n  \"minimum_qualifications\": [{\"status\": string, \"reason\": string}],\n  \"preferred_qualifications\": [{\"status\": string, \"reason\": string}]\n}\nПо одной оценке на требование, строго в порядке списков выше. В reason укажи цитату или факт из резюме.",
		l.Title,
		l.Description,
		bulletList(l.MinimumQualifications),
		bulletList(l.PreferredQualifications),
		resumeText,
	)
	raw, err := s.llm.Ask(ctx, system, user)
	if err != nil {
		return agentPayload{}, fmt.Errorf("%w: %v", ErrAgent, err)
	}
	raw = strings.TrimSpace(raw)
	var out agentPayload
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}
	// best-effort: вырезаем JSON из ответа с обвязкой
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			if err := json.Unmarshal([]byte(raw[i:j+1]), &out); err == nil {
				return out, nil
			}
		}
	}
	return agentPayload{}, fmt.Errorf("%w: не удалось распарсить JSON ответ LLM", ErrAgent)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (нет)"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// alignEvals выравнивает ответ модели по списку требований: длина и порядок
// гарантируются, непокрытые требования получают NOT_QUALIFIED.
func alignEvals(requirements []string, evals []Evaluation) []Evaluation {
	rows := BuildRows(requirements, evals)
	out := make([]Evaluation, len(rows))
	for i, row := range rows {
		if !ValidEvalStatus(row.Status) {
			out[i] = Evaluation{Status: EvalNotQualified, Reason: "оценка не получена от модели"}
			continue
		}
		out[i] = Evaluation{Status: row.Status, Reason: row.Reason}
	}
	return out
}

// keywordEvals — детерминированная оценка без LLM: целая фраза в резюме →
// QUALIFIED, не меньше половины ключевых слов → MEETS, иначе NOT_QUALIFIED.
func keywordEvals(requirements []string, normalizedResume string) []Evaluation {
	out := make([]Evaluation, len(requirements))
	for i, req := range requirements {
		phrase := nlp.Normalize(req)
		if phrase == "" {
			out[i] = Evaluation{Status: EvalNotQualified, Reason: ""}
			continue
		}
		if nlp.ContainsPhrase(normalizedResume, phrase) {
			out[i] = Evaluation{Status: EvalQualified, Reason: "требование найдено в тексте резюме"}
			continue
		}
		keywords := nlp.Keywords(phrase)
		var hit []string
		for _, kw := range keywords {
			if nlp.ContainsPhrase(normalizedResume, kw) {
				hit = append(hit, kw)
			}
		}
		if len(keywords) > 0 && len(hit)*2 >= len(keywords) {
			out[i] = Evaluation{Status: EvalMeets, Reason: "в резюме найдено: " + strings.Join(hit, ", ")}
		} else {
			out[i] = Evaluation{Status: EvalNotQualified, Reason: "в резюме не найдено подтверждений"}
		}
	}
	return out
}

func (s *service) Get(ctx context.Context, sess auth.Session, id uuid.UUID) (Screen, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Screen{}, err
	}
	a, l, err := s.loadApplication(ctx, sc.ApplicationID)
	if err != nil {
		return Screen{}, err
	}
	if !sess.IsSuperuser && a.ApplicantID != sess.UserID && l.CompanyID != sess.UserID {
		return Screen{}, ErrForbidden
	}
	return sc, nil
}

func (s *service) List(ctx context.Context, sess auth.Session, limit, offset int) ([]Screen, error) {
	switch {
	case sess.IsSuperuser:
		return s.repo.ListAll(ctx, limit, offset)
	case sess.IsCompany():
		return s.repo.ListByCompany(ctx, sess.UserID, limit, offset)
	default:
		return s.repo.ListByApplicant(ctx, sess.UserID, limit, offset)
	}
}

func (s *service) SaveManual(ctx context.Context, sess auth.Session, applicationID uuid.UUID, upd ManualUpdate) (Screen, error) {
	if !upd.HasMinimum && !upd.HasPreferred {
		return Screen{}, ErrNoLists
	}
	a, l, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return Screen{}, err
	}
	if !sess.IsSuperuser && l.CompanyID != sess.UserID {
		return Screen{}, ErrForbidden
	}

	sc, err := s.repo.GetByApplication(ctx, a.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Screen{}, err
	}
	isNew := err != nil
	if isNew {
		now := time.Now().UTC()
		sc = Screen{ID: uuid.New(), ApplicationID: a.ID, CreatedAt: now, UpdatedAt: now}
	}

	if upd.SyncSignature != "" {
		current := Signature(l.MinimumQualifications, l.PreferredQualifications,
			sc.MinimumQualifications, sc.PreferredQualifications)
		if upd.SyncSignature != current {
			return Screen{}, ErrStale
		}
	}

	var verr ValidationError
	if upd.HasMinimum {
		rows := BuildRows(l.MinimumQualifications, upd.MinimumQualifications)
		verr.MissingMinimum = ValidateRows(rows)
		sc.MinimumQualifications = Evaluations(rows)
	}
	if upd.HasPreferred {
		rows := BuildRows(l.PreferredQualifications, upd.PreferredQualifications)
		verr.MissingPreferred = ValidateRows(rows)
		sc.PreferredQualifications = Evaluations(rows)
	}
	if len(verr.MissingMinimum) > 0 || len(verr.MissingPreferred) > 0 {
		return Screen{}, &verr
	}

	sc.Score = ComputeScore(sc).MatchPercentage
	sc.UpdatedAt = time.Now().UTC()

	if isNew {
		err = s.repo.Create(ctx, sc)
	} else {
		err = s.repo.Update(ctx, sc)
	}
	if err != nil {
		return Screen{}, err
	}
	s.moveUnderReview(ctx, a)
	return sc, nil
}

func (s *service) Compare(ctx context.Context, sess auth.Session, applicationID uuid.UUID) (Comparison, error) {
	a, l, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return Comparison{}, err
	}
	if !sess.IsSuperuser && a.ApplicantID != sess.UserID && l.CompanyID != sess.UserID {
		return Comparison{}, ErrForbidden
	}
	sc, err := s.repo.GetByApplication(ctx, a.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Comparison{}, err
		}
		// скрининга ещё не было: строки без оценок
		sc = Screen{}
	}
	cmp := Comparison{
		MinimumRows:   BuildRows(l.MinimumQualifications, sc.MinimumQualifications),
		PreferredRows: BuildRows(l.PreferredQualifications, sc.PreferredQualifications),
		Breakdown:     ComputeScore(sc),
		SyncSignature: Signature(l.MinimumQualifications, l.PreferredQualifications,
			sc.MinimumQualifications, sc.PreferredQualifications),
	}
	return cmp, nil
}

func (s *service) loadApplication(ctx context.Context, applicationID uuid.UUID) (application.Application, listing.Listing, error) {
	a, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return application.Application{}, listing.Listing{}, application.ErrNotFound
	}
	l, err := s.listings.GetByID(ctx, a.JobListingID)
	if err != nil {
		return application.Application{}, listing.Listing{}, listing.ErrNotFound
	}
	return a, l, nil
}

// moveUnderReview переводит свежий отклик в ревью после скрининга.
// Отклики дальше по воронке не трогаем, чтобы не откатывать статус.
func (s *service) moveUnderReview(ctx context.Context, a application.Application) {
	if a.Status != application.StatusSubmitted {
		return
	}
	if err := s.applications.UpdateStatus(ctx, a.ID, application.StatusUnderReview, time.Now().UTC()); err != nil {
		log.Printf("screen: failed to move application %s to review: %v", a.ID, err)
	}
}

// cutText обрезает текст до max байт, не разрывая руну на границе.
func cutText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
