package store

import "sync"

// Subject is a replay-latest broadcast of one value.
//
// Subscribers are called synchronously from Next, in subscription order,
// and see values in the order they were published. A subscriber callback
// must not call Next or Subscribe on the same Subject, and must not call
// mutating Store methods, since both would deadlock.
type Subject[T any] struct {
	notifyMu sync.Mutex // held while delivering, so deliveries never interleave

	mu     sync.RWMutex
	value  T
	subs   []subscription[T]
	nextID int
	clone  func(T) T
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewSubject returns a Subject holding initial. clone copies a value
// before it leaves the Subject; nil means values are handed out as is.
func NewSubject[T any](initial T, clone func(T) T) *Subject[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Subject[T]{value: initial, clone: clone}
}

// Value returns a copy of the current value.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()
	return s.clone(v)
}

// Next replaces the value and delivers it to every subscriber.
func (s *Subject[T]) Next(v T) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.value = v
	subs := append([]subscription[T](nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(s.clone(v))
	}
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription; it is safe to call more
// than once.
func (s *Subject[T]) Subscribe(fn func(T)) (cancel func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})
	v := s.value
	s.mu.Unlock()

	fn(s.clone(v))

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
