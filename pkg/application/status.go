package application

// transitions перечисляет допустимые переходы статуса. Переходы выполняет
// компания-владелец вакансии; WITHDRAWN достижим только через Withdraw.
var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusInterview, StatusRejected},
	StatusInterview:   {StatusAccepted, StatusRejected},
}

var terminal = map[Status]struct{}{
	StatusAccepted:  {},
	StatusRejected:  {},
	StatusWithdrawn: {},
}

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s Status) bool {
	_, ok := terminal[s]
	return ok
}

// CanTransition reports whether the workflow allows moving from → to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextActions возвращает переходы, которые UI показывает как действия компании.
// Этапы до ревью (SUBMITTED) двигаются сервером при скрининге, поэтому кнопок
// для них нет: только UNDER_REVIEW и INTERVIEW предлагают явные действия.
func NextActions(s Status) []Status {
	switch s {
	case StatusUnderReview:
		return []Status{StatusInterview, StatusRejected}
	case StatusInterview:
		return []Status{StatusAccepted, StatusRejected}
	default:
		return nil
	}
}
