package event

import (
	"sync"
)

// Indexed pairs an event with its absolute sequence number in a Log.
type Indexed struct {
	Event Event
	Seq   int
}

// Log is a bounded ring buffer of events. When full, the oldest event is
// evicted and its outcome is folded into the evicted ok/err counters so the
// totals stay exact.
//
// Log is safe for one writer and any number of concurrent readers.
type Log struct {
	observers  []Observer
	buf        []Event
	mu         sync.RWMutex
	capacity   int
	head       int
	size       int
	evictedOk  int
	evictedErr int
	okCount    int
}

// NewLog creates a log that retains the last capacity events.
// A capacity of 0 or less retains every event.
func NewLog(capacity int) *Log {
	l := &Log{capacity: capacity}
	if capacity > 0 {
		l.buf = make([]Event, capacity)
	}
	return l
}

// Capacity returns the retention bound, or 0 for an unbounded log.
func (l *Log) Capacity() int {
	if l.capacity <= 0 {
		return 0
	}
	return l.capacity
}

// Push appends an event, evicting the oldest one if the log is full.
func (l *Log) Push(e Event) {
	l.mu.Lock()
	seq := l.evictedOk + l.evictedErr + l.size
	if l.capacity <= 0 {
		l.buf = append(l.buf, e)
		l.size++
	} else {
		if l.size == l.capacity {
			old := l.buf[l.head]
			if old.IsOk() {
				l.evictedOk++
				l.okCount--
			} else {
				l.evictedErr++
			}
			l.buf[l.head] = e
			l.head = (l.head + 1) % l.capacity
		} else {
			l.buf[(l.head+l.size)%l.capacity] = e
			l.size++
		}
	}
	if e.IsOk() {
		l.okCount++
	}
	observers := l.observers
	l.mu.Unlock()

	for _, o := range observers {
		o.OnEvent(seq, e)
	}
}

// Subscribe adds an observer notified after each Push.
func (l *Log) Subscribe(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers[:len(l.observers):len(l.observers)], o)
}

// at returns the i-th retained event, oldest first. Caller holds mu.
func (l *Log) at(i int) Event {
	if l.capacity <= 0 {
		return l.buf[i]
	}
	return l.buf[(l.head+i)%l.capacity]
}

// LastEvent returns the most recently pushed event.
func (l *Log) LastEvent() (Event, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.size == 0 {
		return Event{}, false
	}
	return l.at(l.size - 1), true
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// TotalEvents returns the number of events ever pushed, including evicted ones.
func (l *Log) TotalEvents() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.evictedOk + l.evictedErr + l.size
}

// TotalOk returns the number of ok events ever pushed.
func (l *Log) TotalOk() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.evictedOk + l.okCount
}

// TotalErr returns the number of error events ever pushed.
func (l *Log) TotalErr() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.evictedErr + l.size - l.okCount
}

// AllOk reports whether no error event was ever pushed.
func (l *Log) AllOk() bool {
	return l.TotalErr() == 0
}

// IsOk reports whether the last event is ok. An empty log is not ok.
func (l *Log) IsOk() bool {
	e, ok := l.LastEvent()
	return ok && e.IsOk()
}

// IsErr reports whether the last event is an error. An empty log is not an error.
func (l *Log) IsErr() bool {
	e, ok := l.LastEvent()
	return ok && e.IsErr()
}

// Events returns a copy of the retained events, oldest first.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, l.size)
	for i := range out {
		out[i] = l.at(i)
	}
	return out
}

// Errors returns the retained error events with their sequence numbers.
func (l *Log) Errors() []Indexed {
	l.mu.RLock()
	defer l.mu.RUnlock()
	base := l.evictedOk + l.evictedErr
	var out []Indexed
	for i := 0; i < l.size; i++ {
		if e := l.at(i); e.IsErr() {
			out = append(out, Indexed{Seq: base + i, Event: e})
		}
	}
	return out
}

// Clear drops every retained event and resets all counters.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.capacity > 0 {
		clear(l.buf)
	} else {
		l.buf = nil
	}
	l.head = 0
	l.size = 0
	l.okCount = 0
	l.evictedOk = 0
	l.evictedErr = 0
}
