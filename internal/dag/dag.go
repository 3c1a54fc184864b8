package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode adds the given node to the graph. If a node with the same ID
// already exists, the function does nothing.
func (g *Graph) AddNode(n *Node) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[n.ID]; ok {
		return
	}

	n.deps = make(map[string]*Node)
	n.dependents = make(map[string]*Node)
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// Node returns the node with the given ID and whether it exists.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return len(g.nodes)
}

// Buildable returns the object and executable nodes in insertion order.
func (g *Graph) Buildable() []*Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind != SourceKind {
			out = append(out, n)
		}
	}
	return out
}

// Executables returns the executable nodes in declaration order.
func (g *Graph) Executables() []*Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == ExecutableKind {
			out = append(out, n)
		}
	}
	return out
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is
// returned if either node does not exist or if the edge would create a
// self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential dependency not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("dependency target not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("dependent target not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first target involved in the detected
// cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil // Already visited and known to be safe.
		}
		if temporary[n.ID] {
			// We've hit a node that's already in our recursion stack, so we have a cycle.
			return fmt.Errorf("cycle detected involving target '%s'", n.ID)
		}

		temporary[n.ID] = true

		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err // Propagate the error up.
			}
		}

		// All dependents have been visited, so we can move this node from temporary to permanent.
		delete(temporary, n.ID)
		permanent[n.ID] = true

		return nil
	}

	// Visit every node in the graph.
	for _, n := range g.nodes {
		if !permanent[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}

	return nil
}
