package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusSubmitted, StatusUnderReview, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusSubmitted, StatusInterview, false},
		{StatusSubmitted, StatusAccepted, false},
		{StatusUnderReview, StatusInterview, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusUnderReview, StatusAccepted, false},
		{StatusUnderReview, StatusSubmitted, false},
		{StatusInterview, StatusAccepted, true},
		{StatusInterview, StatusRejected, true},
		{StatusInterview, StatusUnderReview, false},
		{StatusAccepted, StatusRejected, false},
		{StatusRejected, StatusUnderReview, false},
		{StatusWithdrawn, StatusSubmitted, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusAccepted, StatusRejected, StatusWithdrawn} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusSubmitted, StatusUnderReview, StatusInterview} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestNextActions(t *testing.T) {
	assert.Equal(t, []Status{StatusInterview, StatusRejected}, NextActions(StatusUnderReview))
	assert.Equal(t, []Status{StatusAccepted, StatusRejected}, NextActions(StatusInterview))

	for _, s := range []Status{StatusSubmitted, StatusAccepted, StatusRejected, StatusWithdrawn} {
		assert.Empty(t, NextActions(s), "NextActions(%s)", s)
	}
}
