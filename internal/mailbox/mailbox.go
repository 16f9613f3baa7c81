package mailbox

import "sync"

// Mailbox is a single-slot buffer where the latest value always wins.
// It is NOT a queue. It holds at most one pending value.
// Put() overwrites any existing value. Take() blocks until one is available.
// The notifier uses it as a coalescing wake-up: many upload completions
// collapse into a single pending signal.
type Mailbox[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	val  *T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores a value in the mailbox, replacing any existing one.
// It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.val = &v
	m.mu.Unlock()
	m.cond.Signal()
}

// Take blocks until a value is available, then returns it and clears the slot.
func (m *Mailbox[T]) Take() T {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.val == nil {
		m.cond.Wait()
	}

	v := *m.val
	m.val = nil
	return v
}

// TryTake returns the value if present, or nil if empty.
// It never blocks.
func (m *Mailbox[T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.val == nil {
		return nil
	}

	v := m.val
	m.val = nil
	return v
}
