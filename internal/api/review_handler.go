package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/vocab-srs/internal/api/shared"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/service/review"
	"github.com/phrazzld/vocab-srs/internal/session"
	"github.com/phrazzld/vocab-srs/internal/task"
)

// ReviewHandler serves review sessions and progress summaries.
type ReviewHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews review.Service, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("review service cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// StartSession handles POST /sessions.
func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var snap *session.Snapshot
	if req.Due {
		snap, err = h.reviews.StartDueSession(r.Context(), userID, mode)
	} else {
		snap, err = h.reviews.StartSession(r.Context(), userID, *req.ListID, mode)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start review session")
		return
	}

	log.Debug("review session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", snap.ID.String()),
		slog.Bool("due", req.Due))
	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotToResponse(snap))
}

// GetSession handles GET /sessions/{id}.
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	snap, err := h.reviews.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// SubmitJudgment handles POST /sessions/{id}/judgments. With ?wait=true the
// response is delayed until the schedule write finishes.
func (h *ReviewHandler) SubmitJudgment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req JudgmentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))

	res, err := h.reviews.SubmitJudgment(r.Context(), userID, sessionID, req.Judgment())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit judgment")
		return
	}

	sub := res.Submission
	snap := res.Session
	if wait {
		if err := sub.Persisted.Wait(r.Context()); err != nil {
			log.Warn("schedule write did not succeed",
				slog.String("word_id", sub.WordID.String()),
				slog.String("error", err.Error()))
		}
		if refreshed, err := h.reviews.GetSession(r.Context(), userID, sessionID); err == nil {
			snap = *refreshed
		}
	}

	resp := SubmitResponse{
		WordID:    sub.WordID,
		Quality:   int(sub.Judgment.Quality()),
		Correct:   sub.Judgment.Correct(),
		Schedule:  scheduleToResponse(&sub.Schedule),
		Write:     writeState(sub.Persisted),
		Completed: sub.Completed,
		Score:     sub.Score,
		Session:   snapshotToResponse(&snap),
	}

	log.Debug("judgment submitted",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()),
		slog.String("word_id", sub.WordID.String()),
		slog.Int("quality", resp.Quality),
		slog.Bool("completed", sub.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func writeState(f *task.Future) string {
	select {
	case <-f.Done():
		if f.Err() != nil {
			return WriteFailed
		}
		return WriteStored
	default:
		return WritePending
	}
}

// Advance handles POST /sessions/{id}/advance.
func (h *ReviewHandler) Advance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AdvanceRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	snap, err := h.reviews.Advance(r.Context(), userID, sessionID, req.Dir())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to move in review session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// ResetSession handles POST /sessions/{id}/reset.
func (h *ReviewHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	snap, err := h.reviews.ResetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset review session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snap))
}

// EndSession handles DELETE /sessions/{id}.
func (h *ReviewHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.reviews.EndSession(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to end review session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Overview handles GET /progress.
func (h *ReviewHandler) Overview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	overview, err := h.reviews.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}
