package identity

import (
	"sync"

	"github.com/google/uuid"
)

// User is the signed-in account as the rest of the app sees it.
type User struct {
	UID            string
	Email          string
	DisplayName    string
	ProfilePending bool
}

// Event is one value of the session stream. User is nil when signed out.
// Seq increases with every publish so consumers can drop stale deliveries.
type Event struct {
	User *User
	Seq  uint64
}

// Stream fans session changes out to subscribers. New subscribers get the
// current value immediately once anything has been published.
type Stream struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]func(Event)
	current Event
	started bool
}

// Subscribe registers fn and returns the handle that removes it. Calling
// the handle more than once is safe.
func (s *Stream) Subscribe(fn func(Event)) (cancel func()) {
	id := uuid.New()

	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[uuid.UUID]func(Event))
	}
	s.subs[id] = fn
	replay, started := s.current, s.started
	s.mu.Unlock()

	if started {
		fn(replay)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Publish replaces the current value and notifies every subscriber.
func (s *Stream) Publish(u *User) {
	s.mu.Lock()
	var copied *User
	if u != nil {
		dup := *u
		copied = &dup
	}
	s.current = Event{User: copied, Seq: s.current.Seq + 1}
	s.started = true
	ev := s.current
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Current returns the latest event and whether anything was published yet.
func (s *Stream) Current() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.started
}

// Subscribers reports how many listeners are registered.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
