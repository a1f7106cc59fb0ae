// Package bus implements single-threaded change notification channels: a
// value plus a set of subscribers told about every real change to it.
package bus

import "fmt"

// UsageError is the panic value raised when a Channel is misused: a nil
// handler, or a subscription change on a channel that is notifying.
type UsageError struct {
	Op string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("bus: invalid %s", e.Op)
}

// Change carries the previous and the newly stored value.
type Change[T any] struct {
	Old T
	New T
}

// Handler is invoked synchronously for every change. source identifies who
// published it.
type Handler[T any] func(source any, change Change[T])

// Handle identifies one subscription. The zero Handle is never issued.
type Handle struct {
	owner any
	id    uint64
}

// Subscription is the subscribe-only view of a Channel handed to listeners.
type Subscription[T any] interface {
	Subscribe(fn Handler[T]) Handle
	Unsubscribe(h Handle)
	Value() T
}

// Channel stores a value and notifies subscribers when Publish changes it.
// Subscribers are notified in no particular order. A Channel is not safe for
// concurrent use, and subscribers must not subscribe or unsubscribe on the
// channel that is currently notifying them.
type Channel[T comparable] struct {
	value       T
	nextID      uint64
	subscribers map[uint64]Handler[T]
	dispatching bool
}

func NewChannel[T comparable](initial T) *Channel[T] {
	return &Channel[T]{
		value:       initial,
		subscribers: make(map[uint64]Handler[T]),
	}
}

func (c *Channel[T]) Value() T {
	return c.value
}

// Len returns the number of live subscriptions.
func (c *Channel[T]) Len() int {
	return len(c.subscribers)
}

func (c *Channel[T]) Subscribe(fn Handler[T]) Handle {
	if fn == nil {
		panic(&UsageError{Op: "subscribe with nil handler"})
	}
	if c.dispatching {
		panic(&UsageError{Op: "subscribe during notification"})
	}
	c.nextID++
	c.subscribers[c.nextID] = fn
	return Handle{owner: c, id: c.nextID}
}

// Unsubscribe removes the subscription. Unknown, foreign and already removed
// handles are ignored.
func (c *Channel[T]) Unsubscribe(h Handle) {
	if h.owner != any(c) {
		return
	}
	if c.dispatching {
		panic(&UsageError{Op: "unsubscribe during notification"})
	}
	delete(c.subscribers, h.id)
}

// Publish stores v and, when it differs from the current value, notifies every
// subscriber exactly once. It reports whether a change happened.
func (c *Channel[T]) Publish(source any, v T) bool {
	if v == c.value {
		return false
	}
	change := Change[T]{Old: c.value, New: v}
	c.value = v

	// Nested publishes keep their own guard scope.
	wasDispatching := c.dispatching
	c.dispatching = true
	defer func() { c.dispatching = wasDispatching }()

	for _, fn := range c.subscribers {
		fn(source, change)
	}
	return true
}
