package scheduling

import "sync"

// eventLocks hands out one mutex per event so that count-then-decide
// admission runs serialized per event. SQLite has no SELECT ... FOR UPDATE,
// so the advisory lock lives in-process. The map only grows; entries are a
// mutex each and events are finite.
type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *eventLocks) Lock(eventID string) {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

func (l *eventLocks) Unlock(eventID string) {
	l.mu.Lock()
	m := l.locks[eventID]
	l.mu.Unlock()
	m.Unlock()
}
