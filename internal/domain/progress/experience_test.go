package progress

import (
	"testing"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFlashcardExperience(t *testing.T) {
	t.Parallel()

	want := map[domain.Grade]int{
		domain.GradeAgain: 1,
		domain.GradeHard:  3,
		domain.GradeGood:  5,
		domain.GradeEasy:  8,
	}
	for grade, xp := range want {
		assert.Equal(t, xp, FlashcardExperience(grade), "grade=%s", grade)
	}
}

func TestExerciseExperience(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, VocabularyExperience(true))
	assert.Equal(t, 2, VocabularyExperience(false))
	assert.Equal(t, 30, RuleExperience(true, 3))
	assert.Equal(t, 6, RuleExperience(false, 3))
}

func TestQuizExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		correct, total, points int
		want                   int
	}{
		{"all correct", 10, 10, 100, 80},
		{"partial", 7, 10, 75, 42},
		{"none", 0, 5, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QuizExperience(tc.correct, tc.total, tc.points))
		})
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(999))
	assert.Equal(t, 2, LevelFor(1000))
	assert.Equal(t, 1, OverallLevelFor(4999))
	assert.Equal(t, 3, OverallLevelFor(10000))
}
