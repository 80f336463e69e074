package progress

import "github.com/phrazzld/lingua-api/internal/domain"

// FlashcardExperience returns the experience for a graded flashcard review.
func FlashcardExperience(grade domain.Grade) int {
	return grade.Experience()
}

// VocabularyExperience returns the experience for a vocabulary answer.
func VocabularyExperience(correct bool) int {
	if correct {
		return 10
	}
	return 2
}

// RuleExperience returns the experience for a grammar or punctuation
// exercise worth the given points.
func RuleExperience(correct bool, points int) int {
	if correct {
		return points * 10
	}
	return points * 2
}

// QuizExperience returns the experience for a completed quiz: 5 per correct
// answer, a tenth of the points earned, and 20 more when every question was
// answered correctly.
func QuizExperience(correctCount, totalQuestions, totalPoints int) int {
	experience := correctCount*5 + totalPoints/10
	if correctCount == totalQuestions {
		experience += 20
	}
	return experience
}
