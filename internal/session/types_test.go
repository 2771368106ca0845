package session

import (
	"testing"

	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewScore(t *testing.T) {
	tests := []struct {
		correct, total int
		want           int
	}{
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds up
		{0, 5, 0},
		{4, 4, 100},
		{0, 0, 0},
	}

	for _, tt := range tests {
		got := NewScore(tt.correct, tt.total)
		assert.Equal(t, tt.want, got.Percentage, "%d/%d", tt.correct, tt.total)
		assert.Equal(t, tt.correct, got.Correct)
		assert.Equal(t, tt.total, got.Total)
	}
}

func TestJudgment(t *testing.T) {
	assert.Equal(t, domain.Quality(5), Recall(true).Quality())
	assert.Equal(t, domain.Quality(2), Recall(false).Quality())
	assert.True(t, Recall(true).IsBinary())
	assert.False(t, Grade(4).IsBinary())

	assert.True(t, Recall(true).Correct())
	assert.False(t, Recall(false).Correct())
	assert.True(t, Grade(3).Correct())
	assert.False(t, Grade(2).Correct())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Quiz")
	assert.NoError(t, err)
	assert.Equal(t, ModeQuiz, m)

	m, err = ParseMode(" flashcards ")
	assert.NoError(t, err)
	assert.Equal(t, ModeFlashcards, m)

	_, err = ParseMode("exam")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_list_selection", AwaitingListSelection.String())
	assert.Equal(t, "in_progress", InProgress.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
