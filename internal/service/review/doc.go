// Package review orchestrates flashcard review sessions: it validates a
// graded answer, reschedules the card with the srs package, writes the audit
// record and updates the learner's progress, all in one transaction.
package review
