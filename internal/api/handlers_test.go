package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/api"
	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/mocks"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/review"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   chi.Router
	userID   uuid.UUID
	cards    *mocks.MockCardService
	reviews  *mocks.MockReviewService
	progress *mocks.MockProgressService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		userID:   uuid.New(),
		cards:    &mocks.MockCardService{},
		reviews:  &mocks.MockReviewService{},
		progress: &mocks.MockProgressService{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	deckHandler := api.NewDeckHandler(ts.cards, log)
	cardHandler := api.NewCardHandler(ts.reviews, ts.cards, log)
	progressHandler := api.NewProgressHandler(ts.progress, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), ts.userID)))
		})
	})
	r.Post("/decks", deckHandler.CreateDeck)
	r.Post("/decks/{id}/cards", deckHandler.CreateCard)
	r.Get("/cards/due", cardHandler.GetDueCards)
	r.Get("/cards/{id}", cardHandler.GetCard)
	r.Post("/cards/{id}/review", cardHandler.SubmitReview)
	r.Delete("/cards/{id}", cardHandler.DeleteCard)
	r.Get("/progress", progressHandler.GetProgress)
	r.Get("/progress/vocabulary/review", progressHandler.GetVocabularyReview)
	r.Post("/progress/vocabulary", progressHandler.RecordVocabulary)
	r.Post("/progress/rules/{skill}", progressHandler.RecordRule)
	r.Post("/progress/quiz", progressHandler.RecordQuiz)
	ts.router = r

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func newCard(t *testing.T, userID uuid.UUID) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(userID, uuid.New(), domain.CardContent{Front: "hola", Back: "hello"})
	require.NoError(t, err)
	return card
}

func TestCreateDeck(t *testing.T) {
	t.Parallel()

	t.Run("creates deck", func(t *testing.T) {
		ts := newTestServer(t)
		var got service.DeckInput
		ts.cards.CreateDeckFn = func(_ context.Context, userID uuid.UUID, input service.DeckInput) (*domain.Deck, error) {
			assert.Equal(t, ts.userID, userID)
			got = input
			return domain.NewDeck(userID, input.Name, input.Language, input.Category)
		}

		rec := ts.do(t, http.MethodPost, "/decks",
			`{"name":"Basics","language":"Spanish","category":"vocabulary","difficulty":"beginner"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[api.DeckResponse](t, rec)
		assert.Equal(t, "Basics", resp.Name)
		assert.Equal(t, "spanish", resp.Language)
		assert.Equal(t, domain.DifficultyBeginner, got.Difficulty)
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		ts := newTestServer(t)
		tests := []struct {
			name string
			body string
		}{
			{"missing name", `{"language":"es","category":"grammar"}`},
			{"bad difficulty", `{"name":"a","language":"es","category":"grammar","difficulty":"expert"}`},
			{"unknown field", `{"name":"a","language":"es","category":"grammar","owner":"x"}`},
			{"malformed json", `{"name":`},
		}
		for _, tc := range tests {
			rec := ts.do(t, http.MethodPost, "/decks", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
		}
	})
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("adds card to deck", func(t *testing.T) {
		ts := newTestServer(t)
		deckID := uuid.New()
		ts.cards.CreateCardFn = func(_ context.Context, userID, gotDeck uuid.UUID, content domain.CardContent) (*domain.Card, error) {
			assert.Equal(t, deckID, gotDeck)
			return domain.NewCard(userID, gotDeck, content)
		}

		rec := ts.do(t, http.MethodPost, "/decks/"+deckID.String()+"/cards",
			`{"front":"perro","back":"dog","tags":["animals"],"priority":3}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[api.CardResponse](t, rec)
		assert.Equal(t, "perro", resp.Front)
		assert.Equal(t, string(domain.StatusNew), resp.Status)
		assert.Equal(t, domain.DefaultEaseFactor, resp.EaseFactor)
	})

	t.Run("deck not found", func(t *testing.T) {
		ts := newTestServer(t)
		ts.cards.DefaultError = service.NewCardServiceError("create_card", "failed", service.ErrDeckNotFound)

		rec := ts.do(t, http.MethodPost, "/decks/"+uuid.NewString()+"/cards", `{"front":"a","back":"b"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Deck not found", decodeBody[shared.ErrorResponse](t, rec).Error)
	})

	t.Run("invalid deck id", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/decks/not-a-uuid/cards", `{"front":"a","back":"b"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	t.Run("returns new schedule", func(t *testing.T) {
		ts := newTestServer(t)
		card := newCard(t, ts.userID)
		card.Repetition = 1
		card.Interval = 1
		card.EaseFactor = 2.18
		card.NextReviewAt = time.Now().UTC().AddDate(0, 0, 1)

		var gotGrade domain.Grade
		var gotTime int
		ts.reviews.SubmitReviewFn = func(_ context.Context, userID, cardID uuid.UUID, grade domain.Grade, timeSpent int) (*review.Outcome, error) {
			assert.Equal(t, ts.userID, userID)
			assert.Equal(t, card.ID, cardID)
			gotGrade, gotTime = grade, timeSpent
			return &review.Outcome{Card: card, ExperienceGained: 10, DaysUntilNextReview: 1}, nil
		}

		rec := ts.do(t, http.MethodPost, "/cards/"+card.ID.String()+"/review", `{"grade":"good","time_spent":12}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.GradeGood, gotGrade)
		assert.Equal(t, 12, gotTime)
		resp := decodeBody[api.SubmitReviewResponse](t, rec)
		assert.Equal(t, card.ID, resp.CardID)
		assert.Equal(t, string(domain.StatusLearning), resp.Status)
		assert.Equal(t, 10, resp.ExperienceGained)
		assert.Equal(t, 1, resp.DaysUntilNextReview)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			body       string
			svcErr     error
			wantStatus int
		}{
			{"invalid grade", `{"grade":"perfect","time_spent":5}`, nil, http.StatusBadRequest},
			{"negative time", `{"grade":"good","time_spent":-1}`, nil, http.StatusBadRequest},
			{"missing time", `{"grade":"good"}`, nil, http.StatusBadRequest},
			{
				"card not found",
				`{"grade":"good","time_spent":5}`,
				review.NewSubmitReviewError("failed to lock card", review.ErrCardNotFound),
				http.StatusNotFound,
			},
			{
				"concurrent review",
				`{"grade":"again","time_spent":5}`,
				review.NewSubmitReviewError("failed to update card", store.ErrConflict),
				http.StatusConflict,
			},
			{
				"store failure",
				`{"grade":"easy","time_spent":5}`,
				review.NewSubmitReviewError("failed to update card", store.ErrTransactionFailed),
				http.StatusInternalServerError,
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				ts := newTestServer(t)
				called := false
				ts.reviews.SubmitReviewFn = func(context.Context, uuid.UUID, uuid.UUID, domain.Grade, int) (*review.Outcome, error) {
					called = true
					return nil, tc.svcErr
				}

				rec := ts.do(t, http.MethodPost, "/cards/"+uuid.NewString()+"/review", tc.body)

				assert.Equal(t, tc.wantStatus, rec.Code)
				assert.Equal(t, tc.svcErr != nil, called)
			})
		}
	})
}

func TestGetDueCards(t *testing.T) {
	t.Parallel()

	t.Run("passes filters through", func(t *testing.T) {
		ts := newTestServer(t)
		deckID := uuid.New()
		card := newCard(t, ts.userID)
		ts.reviews.GetDueCardsFn = func(_ context.Context, _ uuid.UUID, q review.DueCardsQuery) ([]*domain.Card, error) {
			require.NotNil(t, q.DeckID)
			assert.Equal(t, deckID, *q.DeckID)
			assert.Equal(t, 5, q.Limit)
			return []*domain.Card{card}, nil
		}

		rec := ts.do(t, http.MethodGet, "/cards/due?deck_id="+deckID.String()+"&limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[api.DueCardsResponse](t, rec)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, card.ID, resp.Cards[0].ID)
	})

	t.Run("empty list is not null", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodGet, "/cards/due", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"cards":[]`)
	})

	t.Run("invalid query", func(t *testing.T) {
		ts := newTestServer(t)
		for _, path := range []string{"/cards/due?limit=-1", "/cards/due?limit=ten", "/cards/due?deck_id=nope"} {
			rec := ts.do(t, http.MethodGet, path, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		}
	})
}

func TestGetCardAndDeleteCard(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	card := newCard(t, ts.userID)
	ts.cards.Card = card

	rec := ts.do(t, http.MethodGet, "/cards/"+card.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, card.ID, decodeBody[api.CardResponse](t, rec).ID)

	rec = ts.do(t, http.MethodDelete, "/cards/"+card.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ts.cards.DefaultError = service.ErrCardNotFound
	rec = ts.do(t, http.MethodDelete, "/cards/"+card.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProgressEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("get progress requires language", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodGet, "/progress", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get progress", func(t *testing.T) {
		ts := newTestServer(t)
		ts.progress.GetFn = func(_ context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error) {
			assert.Equal(t, "spanish", language)
			return progress.New(userID, language), nil
		}

		rec := ts.do(t, http.MethodGet, "/progress?language=spanish", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[progress.UserProgress](t, rec)
		assert.Equal(t, 1, resp.OverallLevel)
		assert.Equal(t, "spanish", resp.Language)
	})

	t.Run("vocabulary review", func(t *testing.T) {
		ts := newTestServer(t)
		word := progress.MasteredWord{WordID: uuid.New(), ReviewCount: 2, Accuracy: 80}
		ts.progress.VocabularyDueForReviewFn = func(_ context.Context, _ uuid.UUID, _ string, limit int) ([]progress.MasteredWord, error) {
			assert.Equal(t, 3, limit)
			return []progress.MasteredWord{word}, nil
		}

		rec := ts.do(t, http.MethodGet, "/progress/vocabulary/review?language=Spanish&limit=3", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[api.VocabularyReviewResponse](t, rec)
		assert.Equal(t, "spanish", resp.Language)
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, word.WordID, resp.Words[0].WordID)
	})

	t.Run("record vocabulary", func(t *testing.T) {
		ts := newTestServer(t)
		wordID := uuid.New()
		ts.progress.RecordVocabularyFn = func(_ context.Context, userID uuid.UUID, language string, a service.VocabularyAnswer) (*progress.UserProgress, error) {
			assert.Equal(t, wordID, a.WordID)
			assert.True(t, a.Correct)
			return progress.New(userID, language), nil
		}

		rec := ts.do(t, http.MethodPost, "/progress/vocabulary",
			`{"language":"spanish","word_id":"`+wordID.String()+`","correct":true,"time_spent":4}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("record rule", func(t *testing.T) {
		ts := newTestServer(t)
		var gotSkill progress.Skill
		ts.progress.RecordRuleFn = func(_ context.Context, userID uuid.UUID, language string, skill progress.Skill, _ service.RuleAnswer) (*progress.UserProgress, error) {
			gotSkill = skill
			return progress.New(userID, language), nil
		}
		body := `{"language":"spanish","rule_id":"` + uuid.NewString() + `","correct":true,"points":5}`

		rec := ts.do(t, http.MethodPost, "/progress/rules/punctuation", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, progress.SkillPunctuation, gotSkill)

		rec = ts.do(t, http.MethodPost, "/progress/rules/quiz", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("record quiz", func(t *testing.T) {
		ts := newTestServer(t)
		var got service.QuizSubmission
		ts.progress.RecordQuizFn = func(_ context.Context, userID uuid.UUID, language string, q service.QuizSubmission) (*progress.UserProgress, error) {
			got = q
			return progress.New(userID, language), nil
		}

		rec := ts.do(t, http.MethodPost, "/progress/quiz",
			`{"language":"spanish","correct_count":8,"total_questions":10,"total_points":40,"time_spent":120}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 8, got.CorrectCount)
		assert.Equal(t, 10, got.TotalQuestions)

		rec = ts.do(t, http.MethodPost, "/progress/quiz",
			`{"language":"spanish","correct_count":11,"total_questions":10}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.HasPrefix(decodeBody[shared.ErrorResponse](t, rec).Error, "Invalid correct_count"))
	})
}

func TestMissingUser(t *testing.T) {
	t.Parallel()

	h := api.NewCardHandler(&mocks.MockReviewService{}, &mocks.MockCardService{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	h.GetDueCards(rec, httptest.NewRequest(http.MethodGet, "/cards/due", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
