package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/review"
)

// CardHandler handles card review and card management requests.
type CardHandler struct {
	reviewService review.Service
	cardService   service.CardService
	logger        *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(
	reviewService review.Service,
	cardService service.CardService,
	logger *slog.Logger,
) *CardHandler {
	if logger == nil {
		panic("logger cannot be nil for CardHandler") // ALLOW-PANIC
	}
	return &CardHandler{
		reviewService: reviewService,
		cardService:   cardService,
		logger:        logger.With(slog.String("component", "card_handler")),
	}
}

// GetDueCards handles GET /cards/due?deck_id=&limit=.
func (h *CardHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	deckID, err := getQueryUUID(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid deck ID")
		return
	}
	limit, err := getQueryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid limit")
		return
	}

	cards, err := h.reviewService.GetDueCards(r.Context(), userID, review.DueCardsQuery{
		DeckID: deckID,
		Limit:  limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}

	resp := DueCardsResponse{Cards: make([]CardResponse, 0, len(cards)), Count: len(cards)}
	for _, card := range cards {
		resp.Cards = append(resp.Cards, cardToResponse(card))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetCard handles GET /cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitReview handles POST /cards/{id}/review.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	var req SubmitReviewRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request")
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid grade")
		return
	}

	outcome, err := h.reviewService.SubmitReview(r.Context(), userID, cardID, grade, *req.TimeSpent)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.String("grade", string(grade)),
		slog.Int("interval", outcome.Card.Interval))
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}

// DeleteCard handles DELETE /cards/{id}. Cards are deactivated, not removed,
// so their review records stay intact.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	if err := h.cardService.DeactivateCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
