package remote

import (
	"sync"

	"github.com/spaghettifunk/marionette/engine/containers"
)

// Mailbox is the only place remote updates cross into the update loop.
// Producers Post from any goroutine; the loop drains it at the start of a
// tick. When full, the oldest state is dropped.
type Mailbox struct {
	mu      sync.Mutex
	queue   *containers.RingQueue[State]
	dropped int
}

func NewMailbox(capacity int) *Mailbox {
	return &Mailbox{queue: containers.NewRingQueue[State](capacity)}
}

// Post queues s for the next drain.
func (m *Mailbox) Post(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queue.Overwrite(s) {
		m.dropped++
	}
}

// Drain appends every queued state to dst, oldest first, and returns it.
func (m *Mailbox) Drain(dst []State) []State {
	m.mu.Lock()
	defer m.mu.Unlock()

	for !m.queue.IsEmpty() {
		s, _ := m.queue.Dequeue()
		dst = append(dst, s)
	}
	return dst
}

// Len returns the number of queued states.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// Dropped returns how many states were discarded because the mailbox was full.
func (m *Mailbox) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
