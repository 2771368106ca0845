package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// MockListStore implements store.ListStore for testing. Created lists are
// mirrored into Progress when it is set, so sessions can be started on them.
type MockListStore struct {
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)
	GetListFn    func(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error)
	CreateListFn func(ctx context.Context, list *domain.WordList, words []domain.Word) error

	Progress *MockProgressStore

	mu    sync.Mutex
	Lists []domain.WordList
}

var _ store.ListStore = (*MockListStore)(nil)

// ListByUser implements store.ListStore.
func (m *MockListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.WordList{}
	for _, l := range m.Lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetList implements store.ListStore.
func (m *MockListStore) GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error) {
	if m.GetListFn != nil {
		return m.GetListFn(ctx, userID, listID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.Lists {
		if l.ID == listID && l.UserID == userID {
			found := l
			return &found, nil
		}
	}
	return nil, store.ErrListNotFound
}

// CreateList implements store.ListStore.
func (m *MockListStore) CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error {
	if m.CreateListFn != nil {
		return m.CreateListFn(ctx, list, words)
	}
	if err := list.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	for _, l := range m.Lists {
		if l.UserID == list.UserID && l.Name == list.Name {
			m.mu.Unlock()
			return store.ErrListExists
		}
	}
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	for i := range words {
		if words[i].ID == uuid.Nil {
			words[i].ID = uuid.New()
		}
	}
	m.Lists = append(m.Lists, *list)
	m.mu.Unlock()

	if m.Progress != nil {
		m.Progress.AddList(*list, words)
	}
	return nil
}
