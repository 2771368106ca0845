package session

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/phrazzld/vocab-srs/internal/domain"
)

// Orderer arranges a session's queue in place when it starts or restarts.
type Orderer interface {
	Order(items []domain.ReviewItem)
}

// OrderFunc adapts a function to the Orderer interface.
type OrderFunc func(items []domain.ReviewItem)

// Order implements Orderer.
func (f OrderFunc) Order(items []domain.ReviewItem) { f(items) }

// KeepOrder leaves the queue as supplied.
var KeepOrder Orderer = OrderFunc(func([]domain.ReviewItem) {})

// RandomOrderer shuffles the queue. Orderers built from the same seed
// produce the same sequence of shuffles.
type RandomOrderer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOrderer creates a seeded RandomOrderer.
func NewRandomOrderer(seed uint64) *RandomOrderer {
	return &RandomOrderer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Order implements Orderer.
func (o *RandomOrderer) Order(items []domain.ReviewItem) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// DueDateOrderer puts the most overdue words first. Words that were never
// reviewed are due immediately and come before everything else; ties keep
// their input order.
type DueDateOrderer struct{}

// Order implements Orderer.
func (DueDateOrderer) Order(items []domain.ReviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Schedule, items[j].Schedule
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.NextReviewAt.Before(b.NextReviewAt)
		}
	})
}
