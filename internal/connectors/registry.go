package connectors

import "sort"

// Registry maps source names to connector instances. The selected
// source set of a query is resolved through it; unknown names are
// skipped so a stale client source list degrades instead of failing.
type Registry struct {
	bySource map[string]Connector
}

func NewRegistry(conns ...Connector) *Registry {
	r := &Registry{bySource: make(map[string]Connector, len(conns))}
	for _, c := range conns {
		r.bySource[c.Name()] = c
	}
	return r
}

// Build returns the connectors for the requested sources, preserving
// the requested order.
func (r *Registry) Build(sources []string) []Connector {
	out := make([]Connector, 0, len(sources))
	for _, s := range sources {
		if c, ok := r.bySource[s]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) Get(source string) (Connector, bool) {
	c, ok := r.bySource[source]
	return c, ok
}

func (r *Registry) AvailableSources() []string {
	out := make([]string, 0, len(r.bySource))
	for s := range r.bySource {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
