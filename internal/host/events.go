package host

import "sync"

// Subscriber receives every receipt after it has been journalled.
type Subscriber func(r *Receipt)

// EventPublisher fans receipts out to subscribers. Subscribers are called
// synchronously in submission order and must not block.
type EventPublisher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Subscriber
}

// NewEventPublisher creates a new event publisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{subs: make(map[int]Subscriber)}
}

// Subscribe registers fn and returns a function that removes it.
func (p *EventPublisher) Subscribe(fn Subscriber) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// HasSubscribers returns true if there are any subscribers.
func (p *EventPublisher) HasSubscribers() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs) > 0
}

// Publish delivers r to every subscriber.
func (p *EventPublisher) Publish(r *Receipt) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, fn := range p.subs {
		fn(r)
	}
}

// Clear removes every subscriber.
func (p *EventPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = make(map[int]Subscriber)
}
