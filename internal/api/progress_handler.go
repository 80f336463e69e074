package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lingua-api/internal/api/shared"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/service"
)

// ProgressHandler serves learner progress and records non-flashcard practice.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		panic("logger cannot be nil for ProgressHandler") // ALLOW-PANIC
	}
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /progress?language=.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	language, err := getRequiredQuery(r, "language")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid language")
		return
	}

	p, err := h.progressService.Get(r.Context(), userID, language)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// GetVocabularyReview handles GET /progress/vocabulary/review?language=&limit=.
func (h *ProgressHandler) GetVocabularyReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	language, err := getRequiredQuery(r, "language")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid language")
		return
	}
	limit, err := getQueryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid limit")
		return
	}

	words, err := h.progressService.VocabularyDueForReview(r.Context(), userID, language, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get vocabulary review")
		return
	}
	if words == nil {
		words = []progress.MasteredWord{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, VocabularyReviewResponse{
		Language: domain.NormalizeLanguage(language),
		Words:    words,
		Count:    len(words),
	})
}

// RecordVocabulary handles POST /progress/vocabulary.
func (h *ProgressHandler) RecordVocabulary(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req RecordVocabularyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request")
		return
	}

	p, err := h.progressService.RecordVocabulary(r.Context(), userID, req.Language, service.VocabularyAnswer{
		WordID:    req.WordID,
		Correct:   req.Correct,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record vocabulary answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// RecordRule handles POST /progress/rules/{skill}, where skill is grammar or
// punctuation.
func (h *ProgressHandler) RecordRule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	skill := progress.Skill(chi.URLParam(r, "skill"))
	if skill != progress.SkillGrammar && skill != progress.SkillPunctuation {
		HandleAPIError(w, r,
			domain.NewValidationError("skill", "must be grammar or punctuation", domain.ErrValidation),
			"Invalid skill")
		return
	}

	var req RecordRuleRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request")
		return
	}

	p, err := h.progressService.RecordRule(r.Context(), userID, req.Language, skill, service.RuleAnswer{
		RuleID:    req.RuleID,
		Correct:   req.Correct,
		Points:    req.Points,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record rule answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// RecordQuiz handles POST /progress/quiz.
func (h *ProgressHandler) RecordQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req RecordQuizRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request")
		return
	}

	p, err := h.progressService.RecordQuiz(r.Context(), userID, req.Language, req.toSubmission())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record quiz")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, p)
}
