package wavelet

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages the available wavelet kernels
type Registry struct {
	mu      sync.RWMutex
	kernels map[string]*Kernel // key is the kernel name or an alias
}

var defaultRegistry = &Registry{
	kernels: make(map[string]*Kernel),
}

// Register adds a kernel to the default registry under its name and any aliases
func Register(k *Kernel, aliases ...string) {
	defaultRegistry.Register(k, aliases...)
}

// GetKernel retrieves a kernel from the default registry by name
func GetKernel(name string) (*Kernel, error) {
	return defaultRegistry.Get(name)
}

// KernelNames returns the names and aliases registered in the default registry
func KernelNames() []string {
	return defaultRegistry.Names()
}

// Register adds a kernel under its name and any aliases
func (r *Registry) Register(k *Kernel, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.kernels[k.name] = k
	for _, alias := range aliases {
		r.kernels[alias] = k
	}
}

// Get retrieves a kernel by name. Lookup is case-insensitive.
func (r *Registry) Get(name string) (*Kernel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.kernels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return k, nil
}

// Names returns all registered names and aliases, sorted for determinism
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kernels))
	for name := range r.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
