package srs

import "math"

// vocabularyIntervals are the base review intervals, in days, indexed by how
// many times a mastered word has been reviewed.
var vocabularyIntervals = []int{1, 3, 7, 14, 30, 60, 120}

const (
	lowAccuracyThreshold  = 70.0
	highAccuracyThreshold = 90.0
	maxVocabularyInterval = 120
)

// VocabularyReviewInterval returns the days until a mastered word is due.
// Accuracy below 70 halves the base interval, above 90 stretches it by 30%.
func VocabularyReviewInterval(reviewCount int, accuracy float64) int {
	idx := reviewCount
	if idx < 0 {
		idx = 0
	}
	if idx >= len(vocabularyIntervals) {
		idx = len(vocabularyIntervals) - 1
	}
	interval := vocabularyIntervals[idx]

	switch {
	case accuracy < lowAccuracyThreshold:
		interval = int(math.Floor(float64(interval) * 0.5))
		if interval < 1 {
			interval = 1
		}
	case accuracy > highAccuracyThreshold:
		interval = int(math.Floor(float64(interval) * 1.3))
		if interval > maxVocabularyInterval {
			interval = maxVocabularyInterval
		}
	}

	return interval
}
