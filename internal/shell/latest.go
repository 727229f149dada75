package shell

import "sync"

// Ticket identifies one request made through a Latest guard.
type Ticket[K comparable] struct {
	seq uint64
	key K
}

// Key is the filter state the request was made for.
func (t Ticket[K]) Key() K {
	return t.key
}

// Latest discards responses that no longer match the newest request. Each
// component keeps its own guard; K is the component's filter state, such as
// a year and member pair.
type Latest[K comparable] struct {
	mu  sync.Mutex
	seq uint64
	key K
}

// Begin records a request for key and returns its ticket. Any earlier
// ticket becomes stale.
func (l *Latest[K]) Begin(key K) Ticket[K] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.key = key
	return Ticket[K]{seq: l.seq, key: key}
}

// Current reports whether t belongs to the newest request.
func (l *Latest[K]) Current(t Ticket[K]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current(t)
}

// Apply runs fn only if t is still current and reports whether it ran.
// fn runs with the guard held, so a newer Begin cannot interleave.
func (l *Latest[K]) Apply(t Ticket[K], fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.current(t) {
		return false
	}
	fn()
	return true
}

func (l *Latest[K]) current(t Ticket[K]) bool {
	return t.seq == l.seq && t.key == l.key
}
