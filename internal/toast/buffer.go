package toast

import (
	"sync"
	"time"
)

// Type distinguishes error toasts from informational ones.
type Type string

const (
	TypeError Type = "error"
	TypeInfo  Type = "info"
)

// Toast is a transient user-facing notification.
type Toast struct {
	// ID is unique for the whole process, never reused even after the
	// toast is evicted.
	ID      int64
	Type    Type
	Name    string
	Message string
}

// Options tunes a Buffer. Zero fields fall back to defaults.
type Options struct {
	// Capacity bounds how many toasts are kept; pushing beyond it evicts
	// the oldest first.
	Capacity int
	// ErrorDuration is how long error toasts live before auto-expiry.
	ErrorDuration time.Duration
	// InfoDuration is how long info toasts live before auto-expiry.
	InfoDuration time.Duration
	// OnChange, if set, is called with a snapshot after every mutation.
	OnChange func([]Toast)
}

const (
	defaultCapacity      = 10
	defaultErrorDuration = 8 * time.Second
	defaultInfoDuration  = 3 * time.Second
)

// Buffer is a bounded FIFO of toasts with per-toast expiry timers.
//
// Expiry is keyed by toast ID, never by position: a timer that fires after
// other toasts were pushed or dismissed must remove exactly the toast it
// was scheduled for, or nothing if that toast was already evicted.
type Buffer struct {
	mu       sync.Mutex
	toasts   []Toast
	nextID   int64
	capacity int
	errorDur time.Duration
	infoDur  time.Duration
	onChange func([]Toast)
}

// NewBuffer creates an empty toast buffer.
func NewBuffer(opts Options) *Buffer {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.ErrorDuration <= 0 {
		opts.ErrorDuration = defaultErrorDuration
	}
	if opts.InfoDuration <= 0 {
		opts.InfoDuration = defaultInfoDuration
	}
	return &Buffer{
		capacity: opts.Capacity,
		errorDur: opts.ErrorDuration,
		infoDur:  opts.InfoDuration,
		onChange: opts.OnChange,
	}
}

// PushError appends an error toast and returns its id.
func (b *Buffer) PushError(name, message string) int64 {
	return b.push(Toast{Type: TypeError, Name: name, Message: message})
}

// PushInfo appends an info toast and returns its id.
func (b *Buffer) PushInfo(message string) int64 {
	return b.push(Toast{Type: TypeInfo, Message: message})
}

func (b *Buffer) push(t Toast) int64 {
	b.mu.Lock()
	t.ID = b.nextID
	b.nextID++
	b.toasts = append(b.toasts, t)
	if len(b.toasts) > b.capacity {
		b.toasts = b.toasts[1:]
	}
	duration := b.infoDur
	if t.Type == TypeError {
		duration = b.errorDur
	}
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(snapshot)

	id := t.ID
	time.AfterFunc(duration, func() {
		b.removeByID(id)
	})
	return t.ID
}

// RemoveAt dismisses the toast at the given display position. Unlike
// expiry this is positional on purpose: it is synchronous with the read
// that produced the index.
func (b *Buffer) RemoveAt(index int) {
	b.mu.Lock()
	if index < 0 || index >= len(b.toasts) {
		b.mu.Unlock()
		return
	}
	b.toasts = append(b.toasts[:index], b.toasts[index+1:]...)
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(snapshot)
}

func (b *Buffer) removeByID(id int64) {
	b.mu.Lock()
	found := false
	for i, t := range b.toasts {
		if t.ID == id {
			b.toasts = append(b.toasts[:i], b.toasts[i+1:]...)
			found = true
			break
		}
	}
	var snapshot []Toast
	if found {
		snapshot = b.snapshotLocked()
	}
	b.mu.Unlock()

	if found {
		b.notify(snapshot)
	}
}

// Snapshot returns the current toasts in display order.
func (b *Buffer) Snapshot() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Len returns the current number of toasts.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.toasts)
}

func (b *Buffer) snapshotLocked() []Toast {
	out := make([]Toast, len(b.toasts))
	copy(out, b.toasts)
	return out
}

func (b *Buffer) notify(snapshot []Toast) {
	if b.onChange != nil {
		b.onChange(snapshot)
	}
}
