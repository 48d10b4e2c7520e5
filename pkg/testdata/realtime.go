package testdata

import (
	"context"
	"sync"

	"github.com/jordanlanch/leadflow/pkg/domain"
)

// FakeRealtime is an in-memory change feed. Tests push events with Emit.
type FakeRealtime struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(domain.ChangeEvent)

	SubscribeErr error
}

var _ domain.Realtime = (*FakeRealtime)(nil)

// NewFakeRealtime returns an empty fake feed.
func NewFakeRealtime() *FakeRealtime {
	return &FakeRealtime{subs: make(map[string]map[int]func(domain.ChangeEvent))}
}

// Subscribe registers fn for events on table.
func (f *FakeRealtime) Subscribe(_ context.Context, table string, fn func(domain.ChangeEvent)) (domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	f.nextID++
	id := f.nextID
	if f.subs[table] == nil {
		f.subs[table] = make(map[int]func(domain.ChangeEvent))
	}
	f.subs[table][id] = fn
	return &fakeSubscription{feed: f, table: table, id: id}, nil
}

// Emit delivers an event to every subscriber of its table, synchronously.
func (f *FakeRealtime) Emit(ev domain.ChangeEvent) {
	f.mu.Lock()
	fns := make([]func(domain.ChangeEvent), 0, len(f.subs[ev.Table]))
	for _, fn := range f.subs[ev.Table] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SubscriberCount reports how many subscriptions are active for table.
func (f *FakeRealtime) SubscriberCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[table])
}

type fakeSubscription struct {
	feed  *FakeRealtime
	table string
	id    int
	once  sync.Once
}

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		defer s.feed.mu.Unlock()
		delete(s.feed.subs[s.table], s.id)
	})
}
