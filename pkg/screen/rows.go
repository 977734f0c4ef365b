package screen

import (
	"fmt"
	"strings"
)

// Row — строка сравнения "требование вакансии ↔ оценка скрининга".
// Для требований без подобранной оценки Status пустой, Reason пустая строка.
type Row struct {
	Requirement string     `json:"requirement"`
	Status      EvalStatus `json:"status,omitempty"`
	Reason      string     `json:"reason"`
}

// BuildRows сопоставляет упорядоченный список требований requirements со
// списком оценок evals. Базовое правило — по индексу; если оценки под этим
// индексом нет или она пустая, пробуем подобрать оценку, в тексте reason
// которой требование встречается как подстрока (без учёта регистра).
// Результат всегда длины len(requirements) и в порядке requirements.
func BuildRows(requirements []string, evals []Evaluation) []Row {
	rows := make([]Row, len(requirements))
	used := make([]bool, len(evals))
	// Сначала резервируем все парные по индексу оценки, чтобы fallback не мог
	// забрать оценку, которая достанется следующей строке по индексу.
	for i := range requirements {
		if i < len(evals) && usable(evals[i]) {
			used[i] = true
		}
	}
	for i, req := range requirements {
		rows[i] = Row{Requirement: req}
		if i < len(evals) && usable(evals[i]) {
			rows[i].Status = evals[i].Status
			rows[i].Reason = evals[i].Reason
			continue
		}
		// fallback: ищем reason, содержащий текст требования
		needle := strings.ToLower(strings.TrimSpace(req))
		if needle == "" {
			continue
		}
		for j, ev := range evals {
			if used[j] || !usable(ev) {
				continue
			}
			if strings.Contains(strings.ToLower(ev.Reason), needle) {
				rows[i].Status = ev.Status
				rows[i].Reason = ev.Reason
				used[j] = true
				break
			}
		}
	}
	return rows
}

func usable(ev Evaluation) bool {
	return ValidEvalStatus(ev.Status)
}

// ValidateRows проверяет, что каждая строка с непустым требованием получила
// статус. Возвращает индексы нарушений; пустой срез означает валидный набор.
func ValidateRows(rows []Row) []int {
	var missing []int
	for i, r := range rows {
		if strings.TrimSpace(r.Requirement) == "" {
			continue
		}
		if !ValidEvalStatus(r.Status) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Evaluations разворачивает строки обратно в список оценок того же порядка.
func Evaluations(rows []Row) []Evaluation {
	out := make([]Evaluation, len(rows))
	for i, r := range rows {
		out[i] = Evaluation{Status: r.Status, Reason: r.Reason}
	}
	return out
}

// ValidationError описывает строки, оставшиеся без статуса.
type ValidationError struct {
	MissingMinimum   []int
	MissingPreferred []int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: rows without status (minimum %v, preferred %v)",
		ErrValidation, e.MissingMinimum, e.MissingPreferred)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
