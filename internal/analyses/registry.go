package analyses

import (
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// DefaultKeyTTL is how long an idle keyed instance is remembered.
const DefaultKeyTTL = 15 * time.Minute

const registryMaxKeys = 1024

// Registry maps caller-chosen workflow keys to instances so that repeated
// requests with the same key share one instance. Entries expire after ttl.
type Registry[W any] struct {
	mu    sync.Mutex
	items cache.Cache[string, W]
	newW  func() W
}

// NewRegistry constructs a Registry creating instances with newW.
func NewRegistry[W any](ttl time.Duration, newW func() W) *Registry[W] {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &Registry[W]{
		items: cache.NewCache[string, W]().WithTTL(ttl).WithMaxKeys(registryMaxKeys),
		newW:  newW,
	}
}

// Acquire returns the instance for key, creating it when absent. An empty key
// always yields a fresh, unregistered instance.
func (r *Registry[W]) Acquire(key string) W {
	if key == "" {
		return r.newW()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.items.Get(key); ok {
		return w
	}
	w := r.newW()
	r.items.Set(key, w, 0)
	return w
}

// Forget drops key so the next Acquire starts over.
func (r *Registry[W]) Forget(key string) {
	if key == "" {
		return
	}
	r.items.Invalidate(key)
}
