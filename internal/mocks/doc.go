// Package mocks provides shared test doubles.
//
// Store mocks (CardStore, DeckStore, ReviewStore, ProgressStore) are built on
// testify/mock and return themselves from WithTx, so one set of expectations
// covers both plain and transactional use. UnitOfWork runs its function
// directly against those stores.
//
// Service mocks (MockCardService, MockReviewService, MockProgressService,
// MockJWTService) use function fields with default return values:
//
//	reviews := &mocks.MockReviewService{
//	    SubmitReviewFn: func(ctx context.Context, userID, cardID uuid.UUID, grade domain.Grade, timeSpent int) (*review.Outcome, error) {
//	        return nil, review.ErrCardNotFound
//	    },
//	}
package mocks
