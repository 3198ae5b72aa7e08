package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

type Type uint8

const (
	PointerRelease Type = iota
	KeyRelease
	SelectionChange
	FocusGained
	FocusLost
)

func (t Type) String() string {
	switch t {
	case PointerRelease:
		return "pointer-release"
	case KeyRelease:
		return "key-release"
	case SelectionChange:
		return "selection-change"
	case FocusGained:
		return "focus-gained"
	case FocusLost:
		return "focus-lost"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event is a surface notification. Key is set for key releases.
type Event struct {
	Type Type
	Key  string
}

type Handler func(Event)

// Dispatcher delivers events synchronously in the caller's goroutine, in
// registration order. A panicking handler is recovered and logged so the
// remaining handlers still run.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   uint64
	log      *zap.Logger

	dispatched atomic.Uint64
	panicked   atomic.Uint64
}

type subscription struct {
	id uint64
	fn Handler
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{handlers: map[Type][]subscription{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// On registers fn for events of type t and returns a function that removes
// the registration.
func (d *Dispatcher) On(t Type, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.handlers[t] = append(d.handlers[t], subscription{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { d.off(t, id) })
	}
}

func (d *Dispatcher) off(t Type, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subs := d.handlers[t]
	for i, s := range subs {
		if s.id == id {
			d.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Dispatch runs every handler registered for e.Type. Handlers may register
// or remove handlers; changes apply from the next dispatch.
func (d *Dispatcher) Dispatch(e Event) {
	d.dispatched.Add(1)
	d.mu.RLock()
	subs := append([]subscription(nil), d.handlers[e.Type]...)
	d.mu.RUnlock()
	for _, s := range subs {
		d.run(e, s.fn)
	}
}

func (d *Dispatcher) run(e Event, fn Handler) {
	defer func() {
		if r := recover(); r != nil {
			d.panicked.Add(1)
			d.log.Error("event handler panicked", zap.Stringer("event", e.Type), zap.Any("panic", r))
		}
	}()
	fn(e)
}

type Stats struct {
	Dispatched uint64
	Panicked   uint64
}

func (d *Dispatcher) Stats() Stats {
	return Stats{Dispatched: d.dispatched.Load(), Panicked: d.panicked.Load()}
}
