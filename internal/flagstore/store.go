package flagstore

import (
	"context"
	"slices"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Event records a single flag transition.
type Event struct {
	// Name is the flag that changed.
	Name string

	// Enabled is the flag's state after the transition: true for Set,
	// false for Remove.
	Enabled bool

	// At is the transition time.
	At time.Time
}

// subscriber couples a delivery channel with its name filter. An empty
// filter matches every flag.
type subscriber struct {
	ch     chan Event
	filter []string
}

func (s *subscriber) wants(name string) bool {
	if len(s.filter) == 0 {
		return true
	}
	return slices.Contains(s.filter, name)
}

// Store holds the current flag set and fans transition events out to
// subscribers. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	flags      map[string]struct{}
	subs       map[*subscriber]struct{}
	done       chan struct{}
	bufferSize int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		flags:      make(map[string]struct{}),
		subs:       make(map[*subscriber]struct{}),
		done:       make(chan struct{}),
		bufferSize: defaultBufferSize,
	}
}

// Set raises the named flag. Setting an already-set flag is a no-op and
// publishes nothing.
func (s *Store) Set(name string) {
	s.mu.Lock()
	if _, ok := s.flags[name]; ok {
		s.mu.Unlock()
		return
	}
	s.flags[name] = struct{}{}
	s.publishLocked(Event{Name: name, Enabled: true, At: time.Now()})
	s.mu.Unlock()
}

// Remove clears the named flag. Removing an absent flag is a no-op and
// publishes nothing.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	if _, ok := s.flags[name]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.flags, name)
	s.publishLocked(Event{Name: name, Enabled: false, At: time.Now()})
	s.mu.Unlock()
}

// Has reports whether the named flag is currently set. Flags never set
// report false.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flags[name]
	return ok
}

// Names returns a sorted snapshot of the currently set flags.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.flags))
	for name := range s.flags {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Subscribe returns a channel of transition events for the named flags;
// with no names it delivers every transition. The channel is buffered and
// delivery is non-blocking: a full channel drops the event rather than
// stalling the writer. The channel closes when ctx is cancelled or the
// store is closed.
func (s *Store) Subscribe(ctx context.Context, names ...string) <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		ch := make(chan Event)
		close(ch)
		return ch
	default:
	}

	sub := &subscriber{
		ch:     make(chan Event, s.bufferSize),
		filter: slices.Clone(names),
	}
	s.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()

		select {
		case <-s.done:
			return // Close already shut the channel down.
		default:
		}

		delete(s.subs, sub)
		close(sub.ch)
	}()

	return sub.ch
}

// publishLocked delivers an event to every matching subscriber. Callers
// hold s.mu.
func (s *Store) publishLocked(ev Event) {
	for sub := range s.subs {
		if !sub.wants(ev.Name) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Channel full - drop to prevent blocking.
		}
	}
}

// Close shuts the store down and closes every subscriber channel. Flag
// state remains readable; further Set and Remove calls still mutate it
// but publish nothing.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	close(s.done)
	for sub := range s.subs {
		close(sub.ch)
	}
	s.subs = make(map[*subscriber]struct{})
}

// SubscriberCount returns the number of active subscriptions.
func (s *Store) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
