package event

import (
	"reflect"
	"sync"
)

// Bus is a synchronous event bus. Publish invokes every handler subscribed to
// the event's type, in subscription order, before it returns. Handlers may
// publish further events; those are delivered depth-first, fully processed
// before the outer publish moves on to its next handler.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	handlers map[reflect.Type][]any
	taps     []func(any)
	depth    int
	maxDepth int
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]any),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Tap registers fn to see every published event, of any type, before the
// event's typed handlers run. Taps therefore observe events in the order
// they were published, even when a handler publishes further events.
func (b *Bus) Tap(fn func(event any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taps = append(b.taps, fn)
}

// Publish delivers event to every tap, then to every handler subscribed to T.
// Handlers subscribed while a publish is in flight are not called for it.
func Publish[T any](b *Bus, event T) {
	b.mu.Lock()
	handlers := b.handlers[typeOf[T]()]
	taps := b.taps
	b.mu.Unlock()

	for _, tap := range taps {
		tap(event)
	}

	b.depth++
	if b.depth > b.maxDepth {
		b.maxDepth = b.depth
	}
	defer func() { b.depth-- }()

	for _, h := range handlers {
		h.(func(T))(event)
	}
}

// HandlerCount returns the number of handlers subscribed to T.
func HandlerCount[T any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[typeOf[T]()])
}

// Depth is the number of publishes currently on the stack.
func (b *Bus) Depth() int { return b.depth }

// MaxDepth is the deepest publish nesting observed so far.
func (b *Bus) MaxDepth() int { return b.maxDepth }
