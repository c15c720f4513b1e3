// Package notify routes campaign notifications to delivery channels.
package notify

import (
	"fmt"
	"strings"
	"sync"
)

// Handler delivers a message to a target identified by a channel-
// qualified key (e.g. "telegram:123456").
type Handler func(target, message string) error

// Registry routes messages to the appropriate handler based on the
// target's channel prefix.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty notification registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for targets starting with prefix.
func (r *Registry) Register(prefix string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[prefix] = handler
}

// Notify finds the handler matching the target prefix and calls it.
// Returns an error if no handler is registered for the prefix.
func (r *Registry) Notify(target, message string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for prefix, handler := range r.handlers {
		if strings.HasPrefix(target, prefix) {
			return handler(target, message)
		}
	}
	return fmt.Errorf("no notification handler for target: %s", target)
}
