package reactor

// Reactor is the resolved, validated project tree returned by a Builder.
// It has no mutation API: the tree is final once built.
type Reactor struct {
	root *Definition
}

// NewReactor wraps an already-built root definition.
func NewReactor(root *Definition) *Reactor {
	return &Reactor{root: root}
}

// Root returns the root project definition.
func (r *Reactor) Root() *Definition {
	return r.root
}

// Projects returns every definition in the tree, depth-first, root first.
func (r *Reactor) Projects() []*Definition {
	var all []*Definition
	var walk func(*Definition)
	walk = func(d *Definition) {
		all = append(all, d)
		for _, sub := range d.SubProjects() {
			walk(sub)
		}
	}
	walk(r.root)
	return all
}
