package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// MockProgressStore implements store.ProgressStore for testing. Without
// function fields it behaves like a small in-memory store: words are added
// with AddList and schedule writes are kept in Schedules.
type MockProgressStore struct {
	FetchReviewItemsFn func(ctx context.Context, userID, listID uuid.UUID) ([]domain.ReviewItem, error)
	FetchDueItemsFn    func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.ReviewItem, error)
	UpsertScheduleFn   func(ctx context.Context, userID, wordID uuid.UUID, state *domain.ScheduleState) (*domain.ScheduleState, error)
	ListProgressFn     func(ctx context.Context, userID uuid.UUID) ([]domain.ProgressRecord, error)

	// UpsertErr is returned by the default UpsertSchedule when set.
	UpsertErr error

	mu        sync.Mutex
	lists     map[uuid.UUID]domain.WordList
	words     map[uuid.UUID][]domain.Word
	Schedules map[uuid.UUID]domain.ScheduleState

	UpsertCalls struct {
		mu      sync.Mutex
		Count   int
		WordIDs []uuid.UUID
	}
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// NewMockProgressStore creates an empty store.
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		lists:     make(map[uuid.UUID]domain.WordList),
		words:     make(map[uuid.UUID][]domain.Word),
		Schedules: make(map[uuid.UUID]domain.ScheduleState),
	}
}

// AddList registers a list and its words.
func (m *MockProgressStore) AddList(list domain.WordList, words []domain.Word) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range words {
		words[i].ListID = list.ID
	}
	m.lists[list.ID] = list
	m.words[list.ID] = append([]domain.Word(nil), words...)
}

// SetSchedule stores a schedule state directly.
func (m *MockProgressStore) SetSchedule(state domain.ScheduleState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Schedules[state.WordID] = state
}

// Schedule returns the stored state of wordID.
func (m *MockProgressStore) Schedule(wordID uuid.UUID) (domain.ScheduleState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.Schedules[wordID]
	return st, ok
}

func (m *MockProgressStore) itemFor(w domain.Word) domain.ReviewItem {
	item := domain.ReviewItem{Word: w}
	if st, ok := m.Schedules[w.ID]; ok {
		s := st
		item.Schedule = &s
	}
	return item
}

// FetchReviewItems implements store.ItemSource.
func (m *MockProgressStore) FetchReviewItems(ctx context.Context, userID, listID uuid.UUID) ([]domain.ReviewItem, error) {
	if m.FetchReviewItemsFn != nil {
		return m.FetchReviewItemsFn(ctx, userID, listID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list, ok := m.lists[listID]
	if !ok || list.UserID != userID {
		return nil, store.ErrListNotFound
	}
	items := make([]domain.ReviewItem, 0, len(m.words[listID]))
	for _, w := range m.words[listID] {
		items = append(items, m.itemFor(w))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Word.Term < items[j].Word.Term })
	return items, nil
}

// FetchDueItems implements store.ItemSource.
func (m *MockProgressStore) FetchDueItems(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.ReviewItem, error) {
	if m.FetchDueItemsFn != nil {
		return m.FetchDueItemsFn(ctx, userID, now, limit)
	}
	if limit <= 0 {
		limit = store.DefaultDueLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var items []domain.ReviewItem
	for listID, words := range m.words {
		if m.lists[listID].UserID != userID {
			continue
		}
		for _, w := range words {
			item := m.itemFor(w)
			if item.Schedule != nil && !item.Schedule.NextReviewAt.After(now) {
				items = append(items, item)
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Schedule.NextReviewAt.Before(items[j].Schedule.NextReviewAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// UpsertSchedule implements store.ScheduleWriter.
func (m *MockProgressStore) UpsertSchedule(
	ctx context.Context,
	userID, wordID uuid.UUID,
	state *domain.ScheduleState,
) (*domain.ScheduleState, error) {
	m.UpsertCalls.mu.Lock()
	m.UpsertCalls.Count++
	m.UpsertCalls.WordIDs = append(m.UpsertCalls.WordIDs, wordID)
	m.UpsertCalls.mu.Unlock()

	if m.UpsertScheduleFn != nil {
		return m.UpsertScheduleFn(ctx, userID, wordID, state)
	}
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}

	st := *state
	st.UserID = userID
	st.WordID = wordID

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.Schedules[wordID]; ok {
		st.CreatedAt = prev.CreatedAt
	}
	m.Schedules[wordID] = st
	return &st, nil
}

// ListProgress implements store.ProgressStore.
func (m *MockProgressStore) ListProgress(ctx context.Context, userID uuid.UUID) ([]domain.ProgressRecord, error) {
	if m.ListProgressFn != nil {
		return m.ListProgressFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var records []domain.ProgressRecord
	for listID, words := range m.words {
		for _, w := range words {
			if st, ok := m.Schedules[w.ID]; ok && st.UserID == userID {
				records = append(records, domain.ProgressRecord{State: st, ListID: listID})
			}
		}
	}
	return records, nil
}

// UpsertCount returns how many times UpsertSchedule was called.
func (m *MockProgressStore) UpsertCount() int {
	m.UpsertCalls.mu.Lock()
	defer m.UpsertCalls.mu.Unlock()
	return m.UpsertCalls.Count
}
