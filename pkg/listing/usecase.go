package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/artem13815/ats/pkg/llm"
)

// UseCase — сценарии работы с вакансиями.
type UseCase interface {
	Create(ctx context.Context, l Listing) (Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
	Delete(ctx context.Context, actorID uuid.UUID, isSuperuser bool, id uuid.UUID) error
	// ParseText прогоняет сырой текст вакансии через LLM и накладывает
	// распознанные поля поверх base (см. MergeDraft).
	ParseText(ctx context.Context, rawText string, base Draft) (Draft, error)
}

type service struct {
	repo     Repository
	llm      llm.ChatModel
	maxChars int
}

func NewService(repo Repository, model llm.ChatModel) UseCase {
	return &service{repo: repo, llm: model, maxChars: 12_000}
}

func (s *service) Create(ctx context.Context, l Listing) (Listing, error) {
	l.Title = strings.TrimSpace(l.Title)
	l.CompanyName = strings.TrimSpace(l.CompanyName)
	if l.Title == "" || strings.TrimSpace(l.Description) == "" {
		return Listing{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if l.JobType == "" {
		l.JobType = JobTypeFullTime
	}
	if !ValidJobType(l.JobType) {
		return Listing{}, fmt.Errorf("%w: unknown job type %q", ErrValidation, l.JobType)
	}
	if l.SalaryMin != nil && l.SalaryMax != nil && *l.SalaryMin > *l.SalaryMax {
		return Listing{}, fmt.Errorf("%w: salaryMin exceeds salaryMax", ErrValidation)
	}
	if l.MinimumQualifications == nil {
		l.MinimumQualifications = []string{}
	}
	if l.PreferredQualifications == nil {
		l.PreferredQualifications = []string{}
	}
	if l.PostedOn.IsZero() {
		l.PostedOn = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Listing, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, isSuperuser bool, id uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isSuperuser && l.CompanyID != actorID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ParseText(ctx context.Context, rawText string, base Draft) (Draft, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Draft{}, fmt.Errorf("%w: input text must not be empty", ErrValidation)
	}
	if len(text) > s.maxChars {
		// не режем руну посередине
		cut := s.maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if s.llm == nil {
		return Draft{}, fmt.Errorf("%w: LLM не настроена", ErrValidation)
	}

	system := "Ты HR-аналитик. Верни результат СТРОГО в JSON без markdown и пояснений. Поля, которых нет в тексте, не включай вовсе. Не выдумывай факты."
	user := fmt.Sprintf(
		"Текст вакансии между маркерами:\n<<<\n%s\n>>>\n\nВерни один JSON-объект по схеме (все поля опциональны):\n{\n  \"title\": string,\n  \"description\": string,\n  \"companyName\": string,\n  \"location\": string,\n  \"jobType\": \"FT\"|\"PT\"|\"CO\"|\"IN\"|\"TE\",\n  \"isRemote\": bool,\n  \"salaryMin\": number,\n  \"salaryMax\": number,\n  \"minimumQualifications\": string[],\n  \"preferredQualifications\": string[]\n}\nКвалификации — отдельные требования по одному на элемент, в порядке из текста.",
		text,
	)
	raw, err := s.llm.Ask(ctx, system, user)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	parsed, err := decodeDraft(raw)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if parsed.JobType != nil && !ValidJobType(*parsed.JobType) {
		parsed.JobType = nil
	}
	return MergeDraft(base, parsed), nil
}

func decodeDraft(raw string) (Draft, error) {
	raw = strings.TrimSpace(raw)
	var out Draft
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}
	// try to extract JSON from fenced block
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			if err := json.Unmarshal([]byte(raw[i:j+1]), &out); err == nil {
				return out, nil
			}
		}
	}
	return Draft{}, fmt.Errorf("не удалось распарсить JSON ответ LLM")
}
