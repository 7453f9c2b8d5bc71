package graph

import (
	"sort"
	"sync"
)

// Edge is one injected field: From's field Field was wired (or failed to be
// wired) against the store key Key. To is the node the edge points at: the
// alias of the bean holding Key, or Key itself when no bean owns it.
type Edge struct {
	From     string
	To       string
	Key      string
	Field    string
	Resolved bool
}

// Via returns the store key the edge was resolved through when it differs
// from To, such as a contract name.
func (e Edge) Via() string {
	if e.Key == "" || e.Key == e.To {
		return ""
	}
	return e.Key
}

// Node is one bean, or a key some field asked for but nobody provided.
type Node struct {
	Name     string
	Type     string
	Missing  bool
	Edges    []Edge // outgoing, in field order
	InDegree int
}

// WiringGraph records which bean was wired into which. Cycles are normal here:
// two beans referencing each other is a supported shape, not an error.
type WiringGraph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
}

// New creates an empty graph.
func New() *WiringGraph {
	return &WiringGraph{
		nodes: make(map[string]*Node),
	}
}

// AddBean adds a bean node. Adding an existing name updates its type and clears
// the missing flag.
func (g *WiringGraph) AddBean(name, typeName string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node := g.node(name)
	node.Type = typeName
	node.Missing = false
}

// AddEdge records an injection. Unresolved targets become missing nodes.
func (g *WiringGraph) AddEdge(e Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.node(e.From)
	_, known := g.nodes[e.To]
	to := g.node(e.To)
	if !known && !e.Resolved {
		to.Missing = true
	}

	from.Edges = append(from.Edges, e)
	to.InDegree++
}

func (g *WiringGraph) node(name string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &Node{Name: name}
	g.nodes[name] = n
	g.order = append(g.order, name)
	return n
}

// Nodes returns a copy of every node in insertion order.
func (g *WiringGraph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, len(g.order))
	for _, name := range g.order {
		n := *g.nodes[name]
		n.Edges = append([]Edge(nil), n.Edges...)
		out = append(out, n)
	}
	return out
}

// Dependencies returns the keys name was wired against, in field order.
func (g *WiringGraph) Dependencies(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(n.Edges))
	for _, e := range n.Edges {
		if e.Key != "" {
			deps = append(deps, e.Key)
		} else {
			deps = append(deps, e.To)
		}
	}
	return deps
}

// Dependents returns the names of nodes with an edge into name, sorted.
// Edges resolved through a contract count towards the bean holding it.
func (g *WiringGraph) Dependents(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, n := range g.nodes {
		for _, e := range n.Edges {
			if e.To == name {
				out = append(out, n.Name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Unresolved returns every edge whose target was not found.
func (g *WiringGraph) Unresolved() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Edge
	for _, name := range g.order {
		for _, e := range g.nodes[name].Edges {
			if !e.Resolved {
				out = append(out, e)
			}
		}
	}
	return out
}

// Size returns the node and edge counts.
func (g *WiringGraph) Size() (nodes, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, n := range g.nodes {
		edges += len(n.Edges)
	}
	return len(g.nodes), edges
}
