package cron

import "sync"

// Registry maps recurring-task identifiers to definitions. Insertion
// order is preserved so the item list handed to the engine is stable.
// It is safe for concurrent use; register everything before handing the
// registry to a worker.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

// NewRegistry creates an empty recurring-task registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*Definition),
	}
}

// Register adds a recurring task definition. Re-registering a name
// replaces the definition but keeps its position.
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = def
}

// Lookup returns the definition for the given identifier.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Names returns the registered identifiers in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Items translates every definition into the engine's item shape, in
// registration order.
func (r *Registry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Item, 0, len(r.order))
	for _, name := range r.order {
		items = append(items, r.defs[name].Item())
	}
	return items
}
