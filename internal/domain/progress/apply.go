package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
)

// SkillEvent is the skill-independent part of a practice event.
type SkillEvent struct {
	Experience int
	TimeSpent  int
}

// MasteryUpdater applies the skill-specific part of an event: counters,
// accuracy and mastery lists. It runs after the shared stats are updated.
type MasteryUpdater func(p *UserProgress, now time.Time)

// ApplySkillEvent folds a practice event into the given skill: experience,
// time spent and last activity are updated, the skill-specific updater runs,
// then the skill level, total experience and overall level are recomputed.
// A nil updater is allowed.
func (p *UserProgress) ApplySkillEvent(skill Skill, event SkillEvent, now time.Time, update MasteryUpdater) error {
	if event.Experience < 0 || event.TimeSpent < 0 {
		return ErrNegativeAmount
	}
	stats, err := p.Stats(skill)
	if err != nil {
		return fmt.Errorf("%w: %q", err, skill)
	}

	stats.Experience += event.Experience
	stats.TotalTimeSpent += event.TimeSpent
	activity := now
	stats.LastActivity = &activity

	if update != nil {
		update(p, now)
	}

	stats.Level = LevelFor(stats.Experience)
	p.TotalExperience += event.Experience
	p.OverallLevel = OverallLevelFor(p.TotalExperience)
	p.UpdatedAt = now
	return nil
}

// FlashcardEvent is a graded flashcard review.
type FlashcardEvent struct {
	Experience int
	TimeSpent  int
	Grade      domain.Grade
	DeckID     uuid.UUID
}

// ApplyFlashcardEvent records a flashcard review.
//
// Every review increments CardsReviewed. Reviews not graded "again" update
// the running accuracy as if they scored 100, while "again" reviews leave
// the mean untouched even though they grow its denominator on the next
// update. The deck's last reviewed time is set to now.
func (p *UserProgress) ApplyFlashcardEvent(event FlashcardEvent, now time.Time) error {
	return p.ApplySkillEvent(SkillFlashcard, SkillEvent{
		Experience: event.Experience,
		TimeSpent:  event.TimeSpent,
	}, now, func(p *UserProgress, now time.Time) {
		fp := &p.Flashcard
		fp.CardsReviewed++
		if event.Grade != domain.GradeAgain {
			n := float64(fp.CardsReviewed)
			fp.AverageAccuracy = (fp.AverageAccuracy*(n-1) + 100) / n
		}
		fp.touchDeck(event.DeckID, now)
	})
}

func (fp *FlashcardProgress) touchDeck(deckID uuid.UUID, now time.Time) {
	for i := range fp.Decks {
		if fp.Decks[i].DeckID == deckID {
			fp.Decks[i].LastReviewed = now
			return
		}
	}
	fp.Decks = append(fp.Decks, DeckProgress{DeckID: deckID, LastReviewed: now})
}

// VocabularyEvent is an answered vocabulary exercise.
type VocabularyEvent struct {
	Experience int
	TimeSpent  int
	Correct    bool
	WordID     uuid.UUID
}

// ApplyVocabularyEvent records a vocabulary exercise. A correct answer adds
// the word to the mastered list, or refreshes it when already present.
func (p *UserProgress) ApplyVocabularyEvent(event VocabularyEvent, now time.Time) error {
	return p.ApplySkillEvent(SkillVocabulary, SkillEvent{
		Experience: event.Experience,
		TimeSpent:  event.TimeSpent,
	}, now, func(p *UserProgress, now time.Time) {
		if !event.Correct || event.WordID == uuid.Nil {
			return
		}
		vp := &p.Vocabulary
		if word := vp.find(event.WordID); word != nil {
			word.ReviewCount++
			word.Accuracy = min(100, word.Accuracy+5)
		} else {
			vp.MasteredWords = append(vp.MasteredWords, MasteredWord{
				WordID:      event.WordID,
				MasteredAt:  now,
				ReviewCount: 1,
				Accuracy:    100,
			})
			vp.WordsMastered++
		}
		vp.WordsLearned = max(vp.WordsLearned, vp.WordsMastered)
	})
}

func (vp *VocabularyProgress) find(wordID uuid.UUID) *MasteredWord {
	for i := range vp.MasteredWords {
		if vp.MasteredWords[i].WordID == wordID {
			return &vp.MasteredWords[i]
		}
	}
	return nil
}

// RuleEvent is an answered grammar or punctuation exercise.
type RuleEvent struct {
	Experience int
	TimeSpent  int
	Correct    bool
	RuleID     uuid.UUID
}

// ApplyRuleEvent records a grammar or punctuation exercise. The first
// correct answer for a rule marks it mastered; later ones change nothing
// beyond the shared stats.
func (p *UserProgress) ApplyRuleEvent(skill Skill, event RuleEvent, now time.Time) error {
	var rp *RuleProgress
	switch skill {
	case SkillGrammar:
		rp = &p.Grammar
	case SkillPunctuation:
		rp = &p.Punctuation
	default:
		return fmt.Errorf("%w: %q is not a rule skill", ErrUnknownSkill, skill)
	}

	return p.ApplySkillEvent(skill, SkillEvent{
		Experience: event.Experience,
		TimeSpent:  event.TimeSpent,
	}, now, func(_ *UserProgress, now time.Time) {
		if !event.Correct || event.RuleID == uuid.Nil {
			return
		}
		for _, r := range rp.MasteredRules {
			if r.RuleID == event.RuleID {
				return
			}
		}
		rp.MasteredRules = append(rp.MasteredRules, MasteredRule{
			RuleID:     event.RuleID,
			MasteredAt: now,
			Accuracy:   100,
		})
		rp.RulesMastered++
	})
}

// QuizEvent is a completed quiz.
type QuizEvent struct {
	Experience int
	TimeSpent  int
	Score      float64
	Difficulty domain.Difficulty
	QuizID     *uuid.UUID
}

// ApplyQuizEvent records a completed quiz: the running average and best
// score are updated and the result is prepended to the recent results,
// which keep at most MaxRecentQuizResults entries.
func (p *UserProgress) ApplyQuizEvent(event QuizEvent, now time.Time) error {
	return p.ApplySkillEvent(SkillQuiz, SkillEvent{
		Experience: event.Experience,
		TimeSpent:  event.TimeSpent,
	}, now, func(p *UserProgress, now time.Time) {
		qp := &p.Quiz
		qp.QuizzesCompleted++
		n := float64(qp.QuizzesCompleted)
		qp.AverageScore = (qp.AverageScore*(n-1) + event.Score) / n
		qp.BestScore = max(qp.BestScore, event.Score)

		result := QuizResult{
			QuizID:      event.QuizID,
			Score:       event.Score,
			MaxScore:    100,
			TimeSpent:   event.TimeSpent,
			CompletedAt: now,
			Difficulty:  event.Difficulty,
		}
		recent := append([]QuizResult{result}, qp.RecentResults...)
		if len(recent) > MaxRecentQuizResults {
			recent = recent[:MaxRecentQuizResults]
		}
		qp.RecentResults = recent
	})
}
