package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/vocab-srs/internal/api/shared"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/service/review"
)

// ListHandler serves word lists.
type ListHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(reviews review.Service, logger *slog.Logger) *ListHandler {
	if reviews == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("review service cannot be nil for ListHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ListHandler")
	}

	return &ListHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "list_handler")),
	}
}

// Lists handles GET /lists.
func (h *ListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	lists, err := h.reviews.Lists(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load word lists")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listsToResponse(lists))
}

// SuggestedLists handles GET /lists/suggested.
func (h *ListHandler) SuggestedLists(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	lists, err := h.reviews.SuggestedLists(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load suggested lists")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listsToResponse(lists))
}

// CreateList handles POST /lists.
func (h *ListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateListRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	list := &domain.WordList{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	words := make([]domain.Word, 0, len(req.Words))
	for _, wr := range req.Words {
		words = append(words, domain.Word{
			Term:         strings.TrimSpace(wr.Term),
			Definition:   strings.TrimSpace(wr.Definition),
			PartOfSpeech: strings.TrimSpace(wr.PartOfSpeech),
			Example:      strings.TrimSpace(wr.Example),
		})
	}

	if err := h.reviews.CreateList(r.Context(), list, words); err != nil {
		HandleAPIError(w, r, err, "Failed to create word list")
		return
	}

	log.Info("word list created",
		slog.String("user_id", userID.String()),
		slog.String("list_id", list.ID.String()),
		slog.Int("words", len(words)))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateListResponse{
		List:      listToResponse(list),
		WordCount: len(words),
	})
}
