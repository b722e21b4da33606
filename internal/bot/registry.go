package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type Factory func(ctx context.Context) (Responder, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows the built-in "canned" responder.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("canned", func(ctx context.Context) (Responder, error) {
		_ = ctx
		return NewCanned(DefaultReplies)
	})
	return r
}

func (r *Registry) Register(name string, f Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name string) (Responder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown bot responder: %s", name)
	}
	return f(ctx)
}
