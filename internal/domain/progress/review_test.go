package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWordsDueForReview(t *testing.T) {
	t.Parallel()

	p := New(uuid.New(), "es")
	fresh := MasteredWord{WordID: uuid.New(), MasteredAt: now.Add(-12 * time.Hour), ReviewCount: 1, Accuracy: 100}
	// review count 1, accuracy 100: 3 days stretched to 3
	dueByDays := MasteredWord{WordID: uuid.New(), MasteredAt: now.Add(-3 * day), ReviewCount: 1, Accuracy: 100}
	// review count 3, accuracy 60: 14 days halved to 7
	weak := MasteredWord{WordID: uuid.New(), MasteredAt: now.Add(-8 * day), ReviewCount: 3, Accuracy: 60}
	// review count 3, accuracy 80: 14 days
	notYet := MasteredWord{WordID: uuid.New(), MasteredAt: now.Add(-8 * day), ReviewCount: 3, Accuracy: 80}
	p.Vocabulary.MasteredWords = []MasteredWord{fresh, dueByDays, weak, notYet}

	due := p.WordsDueForReview(now, 0)
	assert.Equal(t, []MasteredWord{dueByDays, weak}, due)

	assert.Equal(t, []MasteredWord{dueByDays}, p.WordsDueForReview(now, 1))
	assert.Empty(t, New(uuid.New(), "es").WordsDueForReview(now, 10))
}
