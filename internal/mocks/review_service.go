package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/service/review"
	"github.com/phrazzld/vocab-srs/internal/session"
)

// errNotConfigured is returned by MockReviewService methods without a Fn.
var errNotConfigured = errors.New("mock review service: method not configured")

// MockReviewService implements review.Service for handler tests. Each
// method delegates to its Fn field; calls are recorded by method name.
type MockReviewService struct {
	StartSessionFn    func(ctx context.Context, userID, listID uuid.UUID, mode session.Mode) (*session.Snapshot, error)
	StartDueSessionFn func(ctx context.Context, userID uuid.UUID, mode session.Mode) (*session.Snapshot, error)
	GetSessionFn      func(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error)
	SubmitJudgmentFn  func(ctx context.Context, userID, sessionID uuid.UUID, j session.Judgment) (*review.SubmitResult, error)
	AdvanceFn         func(ctx context.Context, userID, sessionID uuid.UUID, dir session.Direction) (*session.Snapshot, error)
	ResetSessionFn    func(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error)
	EndSessionFn      func(ctx context.Context, userID, sessionID uuid.UUID) error
	OverviewFn        func(ctx context.Context, userID uuid.UUID) (*domain.Overview, error)
	ListsFn           func(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)
	SuggestedListsFn  func(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)
	CreateListFn      func(ctx context.Context, list *domain.WordList, words []domain.Word) error

	mu    sync.Mutex
	calls []string
}

var _ review.Service = (*MockReviewService)(nil)

func (m *MockReviewService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods called so far, in order.
func (m *MockReviewService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// StartSession implements review.Service.
func (m *MockReviewService) StartSession(
	ctx context.Context,
	userID, listID uuid.UUID,
	mode session.Mode,
) (*session.Snapshot, error) {
	m.record("StartSession")
	if m.StartSessionFn == nil {
		return nil, errNotConfigured
	}
	return m.StartSessionFn(ctx, userID, listID, mode)
}

// StartDueSession implements review.Service.
func (m *MockReviewService) StartDueSession(
	ctx context.Context,
	userID uuid.UUID,
	mode session.Mode,
) (*session.Snapshot, error) {
	m.record("StartDueSession")
	if m.StartDueSessionFn == nil {
		return nil, errNotConfigured
	}
	return m.StartDueSessionFn(ctx, userID, mode)
}

// GetSession implements review.Service.
func (m *MockReviewService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error) {
	m.record("GetSession")
	if m.GetSessionFn == nil {
		return nil, errNotConfigured
	}
	return m.GetSessionFn(ctx, userID, sessionID)
}

// SubmitJudgment implements review.Service.
func (m *MockReviewService) SubmitJudgment(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	j session.Judgment,
) (*review.SubmitResult, error) {
	m.record("SubmitJudgment")
	if m.SubmitJudgmentFn == nil {
		return nil, errNotConfigured
	}
	return m.SubmitJudgmentFn(ctx, userID, sessionID, j)
}

// Advance implements review.Service.
func (m *MockReviewService) Advance(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	dir session.Direction,
) (*session.Snapshot, error) {
	m.record("Advance")
	if m.AdvanceFn == nil {
		return nil, errNotConfigured
	}
	return m.AdvanceFn(ctx, userID, sessionID, dir)
}

// ResetSession implements review.Service.
func (m *MockReviewService) ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error) {
	m.record("ResetSession")
	if m.ResetSessionFn == nil {
		return nil, errNotConfigured
	}
	return m.ResetSessionFn(ctx, userID, sessionID)
}

// EndSession implements review.Service.
func (m *MockReviewService) EndSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	m.record("EndSession")
	if m.EndSessionFn == nil {
		return errNotConfigured
	}
	return m.EndSessionFn(ctx, userID, sessionID)
}

// Overview implements review.Service.
func (m *MockReviewService) Overview(ctx context.Context, userID uuid.UUID) (*domain.Overview, error) {
	m.record("Overview")
	if m.OverviewFn == nil {
		return nil, errNotConfigured
	}
	return m.OverviewFn(ctx, userID)
}

// Lists implements review.Service.
func (m *MockReviewService) Lists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	m.record("Lists")
	if m.ListsFn == nil {
		return nil, errNotConfigured
	}
	return m.ListsFn(ctx, userID)
}

// SuggestedLists implements review.Service.
func (m *MockReviewService) SuggestedLists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	m.record("SuggestedLists")
	if m.SuggestedListsFn == nil {
		return nil, errNotConfigured
	}
	return m.SuggestedListsFn(ctx, userID)
}

// CreateList implements review.Service.
func (m *MockReviewService) CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error {
	m.record("CreateList")
	if m.CreateListFn == nil {
		return errNotConfigured
	}
	return m.CreateListFn(ctx, list, words)
}
