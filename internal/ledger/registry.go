package ledger

// Registry maps category names to accounts for one session. The first
// account registered under a name wins; later ones are ignored.
//
// A Registry has no global state and no teardown: drop it when the run ends.
// It is not safe for concurrent use.
type Registry struct {
	byName map[string]*Account
	order  []*Account
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Account)}
}

// Register stores a under its name if the name is free and reports whether
// it was stored.
func (r *Registry) Register(a *Account) bool {
	if a == nil {
		return false
	}
	if _, exists := r.byName[a.name]; exists {
		return false
	}
	r.byName[a.name] = a
	r.order = append(r.order, a)
	return true
}

// Lookup returns the account registered under name.
func (r *Registry) Lookup(name string) (*Account, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Open returns the account registered under name, creating and registering
// an empty one first if needed.
func (r *Registry) Open(name string) *Account {
	if a, ok := r.byName[name]; ok {
		return a
	}
	a := NewAccount(name)
	r.Register(a)
	return a
}

// Accounts returns the registered accounts in registration order.
func (r *Registry) Accounts() []*Account {
	out := make([]*Account, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, a := range r.order {
		out[i] = a.name
	}
	return out
}

func (r *Registry) Len() int { return len(r.order) }
