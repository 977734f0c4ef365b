package screen

import "math"

// Баллы за статус и веса списков. Минимальные квалификации весят вдвое
// больше предпочтительных.
const (
	minimumWeight   = 2
	preferredWeight = 1
	maxStatusPoints = 4
)

var statusPoints = map[EvalStatus]int{
	EvalHighlyQualified: 4,
	EvalQualified:       3,
	EvalMeets:           2,
	EvalNotQualified:    0,
}

// ScoreBreakdown — развёрнутый результат подсчёта соответствия.
type ScoreBreakdown struct {
	MinimumScore      int     `json:"minimumScore"`
	MinimumMaxScore   int     `json:"minimumMaxScore"`
	PreferredScore    int     `json:"preferredScore"`
	PreferredMaxScore int     `json:"preferredMaxScore"`
	TotalScore        int     `json:"totalScore"`
	MaxScore          int     `json:"maxScore"`
	MatchPercentage   float64 `json:"matchPercentage"`
}

// ComputeScore агрегирует взвешенные баллы обоих списков в процент
// соответствия (0 при отсутствии оценок), округлённый до сотых.
func ComputeScore(s Screen) ScoreBreakdown {
	minScore, minMax := scoreList(s.MinimumQualifications, minimumWeight)
	prefScore, prefMax := scoreList(s.PreferredQualifications, preferredWeight)

	total := minScore + prefScore
	max := minMax + prefMax
	pct := 0.0
	if max > 0 {
		pct = math.Round(float64(total)/float64(max)*100*100) / 100
	}
	return ScoreBreakdown{
		MinimumScore:      minScore,
		MinimumMaxScore:   minMax,
		PreferredScore:    prefScore,
		PreferredMaxScore: prefMax,
		TotalScore:        total,
		MaxScore:          max,
		MatchPercentage:   pct,
	}
}

func scoreList(evals []Evaluation, weight int) (score, maxScore int) {
	if len(evals) == 0 {
		return 0, 0
	}
	for _, ev := range evals {
		score += statusPoints[ev.Status] * weight
	}
	return score, len(evals) * maxStatusPoints * weight
}
