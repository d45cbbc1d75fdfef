package prefs

import "sync"

// Registry tracks the keys claimed by accessors provisioned from one Root.
// A key may be held by at most one live claim; Release makes it available
// again. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{claimed: make(map[string]struct{})}
}

// Claim reserves key for a single accessor. It fails with DuplicateKeyError
// when the key is already held.
func (r *Registry) Claim(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed == nil {
		r.claimed = make(map[string]struct{})
	}
	if _, exists := r.claimed[key]; exists {
		return &DuplicateKeyError{Key: key}
	}
	r.claimed[key] = struct{}{}
	return nil
}

// Release drops the claim on key. Releasing an unclaimed key is a no-op.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, key)
}

// Claimed reports whether key is currently held.
func (r *Registry) Claimed(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.claimed[key]
	return exists
}
