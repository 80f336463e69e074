package domain

// Grade is the recall quality a learner reports after seeing a card's answer.
// The string values are part of the public API and must not change.
type Grade string

// Possible grade values
const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// Grades lists every valid grade in ascending quality order.
var Grades = []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy}

// ParseGrade converts a raw string into a Grade.
// Returns ErrInvalidGrade for anything outside the fixed set.
func ParseGrade(s string) (Grade, error) {
	g := Grade(s)
	if !g.Valid() {
		return "", ErrInvalidGrade
	}
	return g, nil
}

// Valid reports whether g is one of the four known grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}

// Quality maps the grade onto the ordinal 0..3 used by the scheduler.
// Unknown grades map to -1.
func (g Grade) Quality() int {
	switch g {
	case GradeAgain:
		return 0
	case GradeHard:
		return 1
	case GradeGood:
		return 2
	case GradeEasy:
		return 3
	default:
		return -1
	}
}

// CountsAsCorrect reports whether the grade is counted as a correct answer
// for accuracy bookkeeping. Only "again" is a miss here, even though the
// scheduler also resets on "hard".
func (g Grade) CountsAsCorrect() bool {
	return g != GradeAgain
}

// Experience returns the experience points awarded for a flashcard review.
func (g Grade) Experience() int {
	switch g {
	case GradeAgain:
		return 1
	case GradeHard:
		return 3
	case GradeGood:
		return 5
	case GradeEasy:
		return 8
	default:
		return 0
	}
}
