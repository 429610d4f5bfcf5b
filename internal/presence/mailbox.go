package presence

import "sync"

// mailbox is an unbounded queue of loop tasks. Pushing never blocks, so a
// replica may deliver callbacks synchronously from inside a session call.
type mailbox struct {
	notify chan struct{}
	tasks  []func()
	mu     sync.Mutex
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

// push enqueues task and reports whether it was accepted.
func (m *mailbox) push(task func()) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return true
}

// drain removes and returns every queued task.
func (m *mailbox) drain() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := m.tasks
	m.tasks = nil
	return tasks
}

func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.tasks = nil
}
