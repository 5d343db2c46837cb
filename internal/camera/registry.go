package camera

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a camera handle from its declared id and config.
// Construction errors propagate to the caller; the roster builder is the
// layer that tolerates them.
type Constructor func(id int, cfg Config) (Camera, error)

// Registry maps camera kind tags to constructors. It is an explicit object
// threaded through the components that need it: populated once at startup,
// read-only thereafter, though registration is safe under concurrency for
// plugin discovery.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty camera registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Register adds a constructor for a kind tag, replacing any existing one.
func (r *Registry) Register(kind string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[kind] = ctor
}

// Create builds a camera of the given kind. Returns ErrUnknownKind for an
// unregistered tag; constructor errors are passed through unchanged.
func (r *Registry) Create(kind string, id int, cfg Config) (Camera, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownKind, kind, r.Kinds())
	}
	return ctor(id, cfg)
}

// Kinds returns all registered kind tags, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Unregister removes a kind tag. Exists to support isolated tests; not
// used in steady-state operation.
func (r *Registry) Unregister(kind string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructors[kind]; !ok {
		return false
	}
	delete(r.constructors, kind)
	return true
}

// Clear removes all registered kinds.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors = make(map[string]Constructor)
}

// RegisterBuiltins registers the camera kinds this node ships with. Each
// kind exposes a registration hook instead of registering via package
// import side effects, so the set is enumerable from here.
func RegisterBuiltins(r *Registry, opener StreamOpener) {
	RegisterIPCamera(r, opener)
	RegisterMockCamera(r)
}
