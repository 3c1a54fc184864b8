package dag

import "sync"

// Kind classifies a node in the target graph.
type Kind int

const (
	// SourceKind is a pre-existing compilation unit. Sources are leaves:
	// actions read them but never produce them.
	SourceKind Kind = iota
	// ObjectKind is a compiled object artifact.
	ObjectKind
	// ExecutableKind is a linked program artifact.
	ExecutableKind
)

// String returns the lower-case name of the kind for logs and errors.
func (k Kind) String() string {
	switch k {
	case SourceKind:
		return "source"
	case ObjectKind:
		return "object"
	case ExecutableKind:
		return "executable"
	default:
		return "unknown"
	}
}

// Graph is a collection of nodes and their dependency links, representing
// the full set of buildable targets. All operations on the graph are
// concurrency-safe.
type Graph struct {
	// mutex protects the node structures during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*Node
	// order remembers insertion order so traversals stay deterministic.
	order []string
}

// Node represents a single vertex in the graph: a buildable target or a
// leaf source file. Dependency links are managed via the graph API, not by
// direct struct manipulation.
type Node struct {
	// ID is the name a target is requested by. For objects and sources it
	// is also the file path.
	ID string
	// Kind distinguishes sources, objects, and executables.
	Kind Kind
	// Artifact is the output path written by this node's action. Empty for
	// sources.
	Artifact string
	// Inputs lists the IDs of this node's dependencies in declaration order.
	Inputs []string
	// Flags are extra per-target arguments appended to the action.
	Flags []string

	// deps holds the set of nodes this node depends on (predecessors).
	deps map[string]*Node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*Node
}

// Path returns the on-disk location of this node: the artifact path for
// buildable targets, the file path for sources.
func (n *Node) Path() string {
	if n.Artifact != "" {
		return n.Artifact
	}
	return n.ID
}
