package platform

import (
	"sort"
	"sync"
)

// Listeners is a listener table implementations can embed to satisfy the
// AddListener/RemoveListener half of Platform.
type Listeners struct {
	mu      sync.Mutex
	nextID  ListenerID
	entries map[ListenerID]listener
}

type listener struct {
	event Event
	fn    func()
}

// AddListener registers fn for event. Nil functions are not registered and
// yield the zero ListenerID.
func (l *Listeners) AddListener(event Event, fn func()) ListenerID {
	if fn == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.entries == nil {
		l.entries = make(map[ListenerID]listener)
	}
	l.nextID++
	l.entries[l.nextID] = listener{event: event, fn: fn}
	return l.nextID
}

// RemoveListener drops a registration.
func (l *Listeners) RemoveListener(id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

// Count reports how many listeners are registered for event.
func (l *Listeners) Count(event Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, entry := range l.entries {
		if entry.event == event {
			n++
		}
	}
	return n
}

// Dispatch invokes every listener registered for event in registration order.
// Listeners run outside the lock so they may add or remove registrations.
func (l *Listeners) Dispatch(event Event) int {
	l.mu.Lock()
	ids := make([]ListenerID, 0, len(l.entries))
	for id, entry := range l.entries {
		if entry.event == event {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.entries[id].fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
