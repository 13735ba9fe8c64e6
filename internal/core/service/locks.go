package service

import "sync"

// projectLocks serializes read-shift-write position sequences per project.
// Two concurrent moves inside the same project must not interleave their
// bucket shifts; cross-project operations proceed in parallel.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the project's mutex, creating it on first use, and returns
// the matching unlock function.
func (l *projectLocks) Lock(projectID string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
