// Package registry memoizes expensive per-context resources, such as built
// knowledge bases and live conversations, keyed by kind and context id.
package registry

import (
	"fmt"
	"sync"
)

// Kind namespaces registry entries so different resource types never collide
// on the same context id.
type Kind string

// Registry kinds.
const (
	KindKnowledgeBase Kind = "knowledge_base"
	KindConversation  Kind = "conversation"
)

type key struct {
	kind Kind
	id   string
}

// Registry is a concurrency-safe build-once cache.
type Registry struct {
	mu      sync.Mutex
	entries map[key]any
	// building serializes construction per key so concurrent callers share
	// one build instead of racing.
	building map[key]*sync.Once
	errs     map[key]error
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries:  make(map[key]any),
		building: make(map[key]*sync.Once),
		errs:     make(map[key]error),
	}
}

// Get returns the memoized value for (kind, id), invoking build at most once
// across all callers. A failed build is not cached; the next caller retries.
func (r *Registry) Get(kind Kind, id string, build func() (any, error)) (any, error) {
	k := key{kind: kind, id: id}

	r.mu.Lock()
	if v, ok := r.entries[k]; ok {
		r.mu.Unlock()
		return v, nil
	}
	once, ok := r.building[k]
	if !ok {
		once = new(sync.Once)
		r.building[k] = once
		delete(r.errs, k)
	}
	r.mu.Unlock()

	once.Do(func() {
		v, err := build()
		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.errs[k] = err
			delete(r.building, k)
			return
		}
		r.entries[k] = v
		delete(r.errs, k)
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[k]; ok {
		return v, nil
	}
	if err, ok := r.errs[k]; ok {
		return nil, fmt.Errorf("build %s %q: %w", kind, id, err)
	}
	return nil, fmt.Errorf("build %s %q: no result", kind, id)
}

// Peek returns the memoized value without building.
func (r *Registry) Peek(kind Kind, id string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[key{kind: kind, id: id}]
	return v, ok
}

// Delete removes a memoized value.
func (r *Registry) Delete(kind Kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{kind: kind, id: id}
	delete(r.entries, k)
	delete(r.building, k)
	delete(r.errs, k)
}
