package commerce

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages the configured commerce backends
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register registers a new commerce backend
func (r *Registry) Register(backend Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := backend.Code()
	if code == "" {
		return fmt.Errorf("backend code cannot be empty")
	}

	if _, exists := r.backends[code]; exists {
		return fmt.Errorf("backend %s is already registered", code)
	}

	r.backends[code] = backend
	return nil
}

// Get returns a backend by its code
func (r *Registry) Get(code string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, exists := r.backends[code]
	if !exists {
		return nil, fmt.Errorf("backend %s not found", code)
	}

	return backend, nil
}

// Codes returns the codes of all registered backends, sorted
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.backends))
	for code := range r.backends {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}

// Has checks if a backend is registered
func (r *Registry) Has(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.backends[code]
	return exists
}
