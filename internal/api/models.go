package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/session"
)

// StartSessionRequest starts a session over one list or over the due words
// of all lists. Exactly one of ListID and Due must be set.
type StartSessionRequest struct {
	ListID *uuid.UUID `json:"list_id,omitempty" validate:"required_without=Due,excluded_with=Due"`
	Due    bool       `json:"due,omitempty"`
	Mode   string     `json:"mode"              validate:"required"`
}

// JudgmentRequest grades the current word, either as a binary answer or as
// a 0-5 quality.
type JudgmentRequest struct {
	Knew    *bool `json:"knew,omitempty"    validate:"required_without=Quality,excluded_with=Quality"`
	Quality *int  `json:"quality,omitempty" validate:"required_without=Knew"`
}

// Judgment converts the request into a session judgment.
func (r JudgmentRequest) Judgment() session.Judgment {
	if r.Knew != nil {
		return session.Recall(*r.Knew)
	}
	return session.Grade(*r.Quality)
}

// AdvanceRequest moves a flashcard session's cursor.
type AdvanceRequest struct {
	Direction string `json:"direction" validate:"required,oneof=forward backward next previous"`
}

// Dir returns the session direction named by the request.
func (r AdvanceRequest) Dir() session.Direction {
	switch strings.ToLower(r.Direction) {
	case "backward", "previous":
		return session.Backward
	default:
		return session.Forward
	}
}

// WordRequest is one word of a CreateListRequest.
type WordRequest struct {
	Term         string `json:"term"                     validate:"required,max=200"`
	Definition   string `json:"definition"               validate:"required,max=2000"`
	PartOfSpeech string `json:"part_of_speech,omitempty" validate:"max=50"`
	Example      string `json:"example,omitempty"        validate:"max=1000"`
}

// CreateListRequest creates a word list together with its words.
type CreateListRequest struct {
	Name        string        `json:"name"                  validate:"required,max=200"`
	Description string        `json:"description,omitempty" validate:"max=1000"`
	Words       []WordRequest `json:"words"                 validate:"required,min=1,max=5000,dive"`
}

// ScheduleResponse is a word's scheduling state.
type ScheduleResponse struct {
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// ReviewItemResponse is the word under review.
type ReviewItemResponse struct {
	WordID       uuid.UUID         `json:"word_id"`
	ListID       uuid.UUID         `json:"list_id"`
	Term         string            `json:"term"`
	Definition   string            `json:"definition"`
	PartOfSpeech string            `json:"part_of_speech,omitempty"`
	Example      string            `json:"example,omitempty"`
	Schedule     *ScheduleResponse `json:"schedule,omitempty"`
}

// PersistenceResponse counts the schedule writes a session has issued.
type PersistenceResponse struct {
	Issued  int `json:"issued"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

// SessionResponse is the state of a review session.
type SessionResponse struct {
	ID          uuid.UUID           `json:"id"`
	State       string              `json:"state"`
	Mode        string              `json:"mode,omitempty"`
	Index       int                 `json:"index"`
	Total       int                 `json:"total"`
	Current     *ReviewItemResponse `json:"current,omitempty"`
	Aggregates  session.Aggregates  `json:"aggregates"`
	Score       *session.Score      `json:"score,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	Persistence PersistenceResponse `json:"persistence"`
}

// Write states reported in SubmitResponse.
const (
	WriteStored  = "stored"
	WritePending = "pending"
	WriteFailed  = "failed"
)

// SubmitResponse is the outcome of a judgment.
type SubmitResponse struct {
	WordID    uuid.UUID        `json:"word_id"`
	Quality   int              `json:"quality"`
	Correct   bool             `json:"correct"`
	Schedule  ScheduleResponse `json:"schedule"`
	Write     string           `json:"write"`
	Completed bool             `json:"completed"`
	Score     *session.Score   `json:"score,omitempty"`
	Session   SessionResponse  `json:"session"`
}

// WordListResponse describes a word list.
type WordListResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateListResponse is returned after a list was stored.
type CreateListResponse struct {
	List      WordListResponse `json:"list"`
	WordCount int              `json:"word_count"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func scheduleToResponse(s *domain.ScheduleState) ScheduleResponse {
	resp := ScheduleResponse{
		EaseFactor:   s.EaseFactor,
		Interval:     s.Interval,
		Repetitions:  s.Repetitions,
		NextReviewAt: s.NextReviewAt,
	}
	if s.IsReviewed() {
		last := s.LastReviewedAt
		resp.LastReviewedAt = &last
	}
	return resp
}

func itemToResponse(item *domain.ReviewItem) *ReviewItemResponse {
	if item == nil {
		return nil
	}
	resp := &ReviewItemResponse{
		WordID:       item.Word.ID,
		ListID:       item.Word.ListID,
		Term:         item.Word.Term,
		Definition:   item.Word.Definition,
		PartOfSpeech: item.Word.PartOfSpeech,
		Example:      item.Word.Example,
	}
	if item.Schedule != nil {
		s := scheduleToResponse(item.Schedule)
		resp.Schedule = &s
	}
	return resp
}

func snapshotToResponse(snap *session.Snapshot) SessionResponse {
	return SessionResponse{
		ID:         snap.ID,
		State:      snap.State.String(),
		Mode:       string(snap.Mode),
		Index:      snap.Index,
		Total:      snap.Total,
		Current:    itemToResponse(snap.Current),
		Aggregates: snap.Aggregates,
		Score:      snap.Score,
		StartedAt:  snap.StartedAt,
		Persistence: PersistenceResponse{
			Issued:  snap.Persist.Issued,
			Pending: snap.Persist.Pending,
			Failed:  snap.Persist.Failed,
		},
	}
}

func listToResponse(l *domain.WordList) WordListResponse {
	return WordListResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
	}
}

func listsToResponse(lists []domain.WordList) []WordListResponse {
	out := make([]WordListResponse, 0, len(lists))
	for i := range lists {
		out = append(out, listToResponse(&lists[i]))
	}
	return out
}
