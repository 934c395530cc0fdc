// Package store holds the application state and the only code allowed to
// change it.
//
// All mutation goes through Dispatch, which runs Reduce and then notifies
// subscribers. A Store performs no I/O and is not safe for concurrent use:
// it is meant to be driven from the Bubble Tea update loop, which already
// serializes every message.
package store

// Listener observes a dispatched action together with the state it produced.
type Listener func(a Action, s State)

// Store owns one State and serializes transitions through Reduce.
type Store struct {
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// New creates a store starting from initial.
func New(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// State returns the current state.
func (s *Store) State() State {
	return s.state
}

// Dispatch applies a to the current state and notifies every listener in
// subscription order.
func (s *Store) Dispatch(a Action) {
	s.state = Reduce(s.state, a)

	for _, id := range s.order {
		if l, ok := s.listeners[id]; ok {
			l(a, s.state)
		}
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}
