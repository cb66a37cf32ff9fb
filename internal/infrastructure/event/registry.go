package event

import (
	"slices"
	"sync"

	"github.com/bizcore/backend/internal/domain/shared"
)

// anyType is the routing key of handlers subscribed to every event.
const anyType = ""

// routes maps event types to handlers in subscription order.
type routes struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func newRoutes() *routes {
	return &routes{byType: make(map[string][]shared.EventHandler)}
}

func (r *routes) add(h shared.EventHandler, eventTypes []string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyType}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], h)
	}
}

func (r *routes) remove(h shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, func(x shared.EventHandler) bool { return x == h })
		if len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

// lookup returns the handlers of eventType, then the catch-all handlers.
// The result is a copy and safe to iterate without the lock.
func (r *routes) lookup(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Concat(r.byType[eventType], r.byType[anyType])
}
