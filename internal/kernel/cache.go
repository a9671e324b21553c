package kernel

import "sync"

// Cache memoizes compiled kernels by a caller-supplied signature
// (ordinarily the requested input, output and parameter names; each
// Simulation owns its own Cache, so the netlist is implied) so a
// Simulation never recompiles the same shape twice. Grounded on the teacher's own
// internal/compute.Backend selection: a package-level choice made
// once and reused for every call, generalized here from a single
// active backend to a signature-keyed map since one process may run
// several distinct circuits at once.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Kernel
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{entries: map[string]*Kernel{}} }

// GetOrBuild returns the cached kernel for signature, building and
// storing it via build on a miss.
func (c *Cache) GetOrBuild(signature string, build func() (*Kernel, error)) (*Kernel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.entries[signature]; ok {
		return k, nil
	}
	k, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[signature] = k
	return k, nil
}

// Invalidate drops signature from the cache, forcing the next
// GetOrBuild to recompile.
func (c *Cache) Invalidate(signature string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, signature)
}
