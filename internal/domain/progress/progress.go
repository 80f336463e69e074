// Package progress models a learner's per-language leveling state across the
// practice skills and folds practice events into it.
package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
)

const (
	// ExperiencePerLevel is the skill experience needed for each skill level.
	ExperiencePerLevel = 1000
	// ExperiencePerOverallLevel is the total experience needed for each
	// overall level.
	ExperiencePerOverallLevel = 5000
	// MaxRecentQuizResults caps the recent quiz results list.
	MaxRecentQuizResults = 10
)

// Skill names one practice area tracked in user progress.
type Skill string

// Tracked skills
const (
	SkillFlashcard   Skill = "flashcard"
	SkillVocabulary  Skill = "vocabulary"
	SkillGrammar     Skill = "grammar"
	SkillPunctuation Skill = "punctuation"
	SkillQuiz        Skill = "quiz"
)

// Errors returned when applying events.
var (
	ErrUnknownSkill   = errors.New("unknown skill")
	ErrNegativeAmount = errors.New("experience and time spent cannot be negative")
)

// SkillStats is the leveling state shared by every skill.
type SkillStats struct {
	Level          int        `json:"level"`
	Experience     int        `json:"experience"`
	TotalTimeSpent int        `json:"total_time_spent"`
	LastActivity   *time.Time `json:"last_activity,omitempty"`
}

// DeckProgress tracks when a deck was last reviewed.
type DeckProgress struct {
	DeckID       uuid.UUID `json:"deck_id"`
	LastReviewed time.Time `json:"last_reviewed"`
}

// FlashcardProgress is the flashcard skill record.
type FlashcardProgress struct {
	SkillStats
	CardsReviewed   int            `json:"cards_reviewed"`
	CardsMastered   int            `json:"cards_mastered"`
	AverageAccuracy float64        `json:"average_accuracy"`
	Decks           []DeckProgress `json:"decks"`
}

// MasteredWord is a vocabulary entry the learner has answered correctly.
type MasteredWord struct {
	WordID      uuid.UUID `json:"word_id"`
	MasteredAt  time.Time `json:"mastered_at"`
	ReviewCount int       `json:"review_count"`
	Accuracy    float64   `json:"accuracy"`
}

// VocabularyProgress is the vocabulary skill record.
type VocabularyProgress struct {
	SkillStats
	WordsLearned    int            `json:"words_learned"`
	WordsMastered   int            `json:"words_mastered"`
	AverageAccuracy float64        `json:"average_accuracy"`
	MasteredWords   []MasteredWord `json:"mastered_words"`
}

// MasteredRule is a grammar or punctuation rule the learner has answered
// correctly at least once.
type MasteredRule struct {
	RuleID     uuid.UUID `json:"rule_id"`
	MasteredAt time.Time `json:"mastered_at"`
	Accuracy   float64   `json:"accuracy"`
}

// RuleProgress is the record used by the grammar and punctuation skills.
type RuleProgress struct {
	SkillStats
	RulesLearned    int            `json:"rules_learned"`
	RulesMastered   int            `json:"rules_mastered"`
	AverageAccuracy float64        `json:"average_accuracy"`
	MasteredRules   []MasteredRule `json:"mastered_rules"`
}

// QuizResult is one completed quiz.
type QuizResult struct {
	QuizID      *uuid.UUID        `json:"quiz_id,omitempty"`
	Score       float64           `json:"score"`
	MaxScore    float64           `json:"max_score"`
	TimeSpent   int               `json:"time_spent"`
	CompletedAt time.Time         `json:"completed_at"`
	Difficulty  domain.Difficulty `json:"difficulty,omitempty"`
}

// QuizProgress is the quiz skill record.
type QuizProgress struct {
	SkillStats
	QuizzesCompleted int          `json:"quizzes_completed"`
	AverageScore     float64      `json:"average_score"`
	BestScore        float64      `json:"best_score"`
	RecentResults    []QuizResult `json:"recent_results"`
}

// UserProgress is the single progress aggregate for a (user, language) pair.
type UserProgress struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Language        string             `json:"language"`
	OverallLevel    int                `json:"overall_level"`
	TotalExperience int                `json:"total_experience"`
	Flashcard       FlashcardProgress  `json:"flashcard"`
	Vocabulary      VocabularyProgress `json:"vocabulary"`
	Grammar         RuleProgress       `json:"grammar"`
	Punctuation     RuleProgress       `json:"punctuation"`
	Quiz            QuizProgress       `json:"quiz"`
	Version         int                `json:"-"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// New returns the default progress record for a user and language: every
// level at 1, no experience and empty mastery lists.
func New(userID uuid.UUID, language string) *UserProgress {
	now := time.Now().UTC()
	return &UserProgress{
		ID:           uuid.New(),
		UserID:       userID,
		Language:     domain.NormalizeLanguage(language),
		OverallLevel: 1,
		Flashcard:    FlashcardProgress{SkillStats: SkillStats{Level: 1}, Decks: []DeckProgress{}},
		Vocabulary:   VocabularyProgress{SkillStats: SkillStats{Level: 1}, MasteredWords: []MasteredWord{}},
		Grammar:      RuleProgress{SkillStats: SkillStats{Level: 1}, MasteredRules: []MasteredRule{}},
		Punctuation:  RuleProgress{SkillStats: SkillStats{Level: 1}, MasteredRules: []MasteredRule{}},
		Quiz:         QuizProgress{SkillStats: SkillStats{Level: 1}, RecentResults: []QuizResult{}},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Stats returns the shared leveling state for a skill.
func (p *UserProgress) Stats(skill Skill) (*SkillStats, error) {
	switch skill {
	case SkillFlashcard:
		return &p.Flashcard.SkillStats, nil
	case SkillVocabulary:
		return &p.Vocabulary.SkillStats, nil
	case SkillGrammar:
		return &p.Grammar.SkillStats, nil
	case SkillPunctuation:
		return &p.Punctuation.SkillStats, nil
	case SkillQuiz:
		return &p.Quiz.SkillStats, nil
	default:
		return nil, ErrUnknownSkill
	}
}

// LevelFor returns the skill level reached with the given experience.
func LevelFor(experience int) int {
	return experience/ExperiencePerLevel + 1
}

// OverallLevelFor returns the overall level reached with the given total
// experience.
func OverallLevelFor(totalExperience int) int {
	return totalExperience/ExperiencePerOverallLevel + 1
}
