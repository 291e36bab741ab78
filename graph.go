package trellis

import (
	"fmt"
	"sort"
)

// Graph is the reference graph over one locale's message tree: an edge a → b
// means the string at key a references key b. Adjacency is built once from
// the tree and traversed with BFS to answer "which strings break if this
// one changes".
type Graph struct {
	forward map[string][]string // key -> keys its value references
	reverse map[string][]string // key -> keys whose values reference it
	keys    []string            // sorted leaf keys
}

// GraphNode is a key in a traversal with its distance from the root.
type GraphNode struct {
	Key   string `json:"key"`
	Depth int    `json:"depth"` // BFS depth from root (0 = root itself)
}

// Traversal is the result of a transitive graph walk.
type Traversal struct {
	Root  string      `json:"root"`
	Nodes []GraphNode `json:"nodes"`
	Depth int         `json:"depth"` // actual max depth reached
}

// BuildGraph extracts every reference token from every leaf of root and
// builds forward and reverse adjacency. Tokens with invalid paths still
// produce edges; the graph is a syntactic view, validation is separate.
func BuildGraph(root Branch) *Graph {
	flat := root.Flatten()
	g := &Graph{
		forward: make(map[string][]string),
		reverse: make(map[string][]string),
		keys:    root.Keys(),
	}
	for _, key := range g.keys {
		for ref := range References(flat[key]) {
			g.forward[key] = append(g.forward[key], ref.Path)
			g.reverse[ref.Path] = append(g.reverse[ref.Path], key)
		}
	}
	for _, adj := range []map[string][]string{g.forward, g.reverse} {
		for k := range adj {
			sort.Strings(adj[k])
		}
	}
	return g
}

// ReferencesFrom returns the keys that the string at key references
// directly, in sorted order.
func (g *Graph) ReferencesFrom(key string) []string {
	return g.forward[key]
}

// ReferencesTo returns the keys whose strings reference key directly, in
// sorted order.
func (g *Graph) ReferencesTo(key string) []string {
	return g.reverse[key]
}

// Keys returns the sorted leaf keys the graph was built from.
func (g *Graph) Keys() []string {
	return g.keys
}

// TransitiveDependents walks the reverse edges from key up to maxDepth and
// returns every key that directly or indirectly references it. maxDepth of 0
// returns only the root node; negative is an error. Capped at 100.
func (g *Graph) TransitiveDependents(key string, maxDepth int) (*Traversal, error) {
	return g.traverse(key, maxDepth, g.reverse)
}

// TransitiveReferences walks the forward edges from key up to maxDepth and
// returns every key its value depends on, directly or indirectly.
func (g *Graph) TransitiveReferences(key string, maxDepth int) (*Traversal, error) {
	return g.traverse(key, maxDepth, g.forward)
}

// traverse is a depth-capped BFS over one adjacency direction.
func (g *Graph) traverse(key string, maxDepth int, adjacency map[string][]string) (*Traversal, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("traverse %q: maxDepth must be non-negative, got %d", key, maxDepth)
	}
	if maxDepth > 100 {
		maxDepth = 100
	}

	result := &Traversal{
		Root:  key,
		Nodes: []GraphNode{{Key: key, Depth: 0}},
	}
	if maxDepth == 0 {
		return result, nil
	}

	visited := map[string]bool{key: true}
	frontier := []string{key}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, k := range frontier {
			for _, neighbor := range adjacency[k] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				result.Nodes = append(result.Nodes, GraphNode{Key: neighbor, Depth: depth})
				result.Depth = depth
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return result, nil
}
