package progress

import (
	"time"

	"github.com/phrazzld/lingua-api/internal/domain/srs"
)

const day = 24 * time.Hour

// WordsDueForReview returns the mastered words whose review interval has
// elapsed at now, in mastery order. A non-positive limit returns all of them.
func (p *UserProgress) WordsDueForReview(now time.Time, limit int) []MasteredWord {
	due := make([]MasteredWord, 0)
	for _, word := range p.Vocabulary.MasteredWords {
		daysSince := int(now.Sub(word.MasteredAt) / day)
		if daysSince >= srs.VocabularyReviewInterval(word.ReviewCount, word.Accuracy) {
			due = append(due, word)
			if limit > 0 && len(due) == limit {
				break
			}
		}
	}
	return due
}
