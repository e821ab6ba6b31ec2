package auth

import "sync"

// Broker fans session-change notifications out to in-process subscribers.
// It is the sole mechanism driving the process-wide session holder — there
// is no polling anywhere.
type Broker struct {
	mu      sync.Mutex
	current *Session
	subs    map[int]func(*Session)
	next    int
}

// NewBroker returns an empty Broker whose current state is "no session".
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(*Session))}
}

// Subscribe registers fn and invokes it synchronously with the current
// session state before returning, so a new subscriber never has to poll for
// its initial state. The returned func unsubscribes; after it returns, fn
// is never invoked again. Safe to call the unsubscribe func more than once.
func (b *Broker) Subscribe(fn func(*Session)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish records the new session state (nil = signed out) and notifies
// every subscriber.
func (b *Broker) Publish(sess *Session) {
	b.mu.Lock()
	b.current = sess
	fns := make([]func(*Session), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// Current returns the most recently published session state.
func (b *Broker) Current() *Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
