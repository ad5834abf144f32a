// Package eventbus provides the named-event publish/subscribe registry that
// decouples network completions from cache reconciliation and UI refresh.
//
// Delivery is synchronous and ordered: Emit invokes every handler registered
// for the kind, in registration order, on the caller's goroutine, and returns
// once all of them have run. A handler may call Emit itself; the nested emit
// runs to completion before the outer emit resumes with its remaining
// handlers. A panicking handler is logged and skipped; it never prevents the
// handlers after it from running and never reaches the emitter.
package eventbus

import (
	"context"
	"sync"

	"github.com/avalune/wisp/internal/logging"
)

// Handler receives the payload passed to Emit.
type Handler func(payload any)

// Subscription identifies one registration. Go functions are not comparable,
// so unsubscription works through the token returned by On rather than by
// handler identity.
type Subscription struct {
	kind Kind
	fn   Handler
}

// Kind returns the event kind the subscription is registered under.
func (s *Subscription) Kind() Kind { return s.kind }

type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]*Subscription
	log      logging.Logger
}

func New(log logging.Logger) *Bus {
	return &Bus{
		handlers: make(map[Kind][]*Subscription),
		log:      log,
	}
}

// On registers fn under kind. Multiple handlers per kind are allowed;
// registration order defines invocation order.
func (b *Bus) On(kind Kind, fn Handler) *Subscription {
	sub := &Subscription{kind: kind, fn: fn}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], sub)
	return sub
}

// Off removes the registration identified by sub. Removing an already-removed
// subscription is a no-op. When the last handler for a kind is removed, the
// kind's entry is dropped entirely.
func (b *Bus) Off(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.kind]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.handlers, sub.kind)
	} else {
		b.handlers[sub.kind] = subs
	}
}

// Emit synchronously invokes every handler registered for kind, in
// registration order, passing payload to each. Emitting a kind with no
// handlers is a no-op.
func (b *Bus) Emit(kind Kind, payload any) {
	b.mu.Lock()
	subs := b.handlers[kind]
	// Snapshot so handlers can subscribe/unsubscribe (or emit) without
	// deadlocking or perturbing this delivery.
	snapshot := make([]*Subscription, len(subs))
	copy(snapshot, subs)
	b.mu.Unlock()

	for _, sub := range snapshot {
		b.dispatch(kind, sub, payload)
	}
}

// Clear drops every registration. Used on logout/shutdown so no handler
// outlives the session it was wired for.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[Kind][]*Subscription)
}

func (b *Bus) dispatch(kind Kind, sub *Subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), "event handler panicked",
				"event", string(kind), "panic", r)
		}
	}()
	sub.fn(payload)
}
