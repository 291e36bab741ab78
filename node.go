package trellis

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one position in a message tree: a Leaf translation string, a
// Branch of named children, or an Opaque value decoded from a catalog file
// that is neither (numbers, bools, arrays). The interface is sealed; the
// three implementations are the only ones.
type Node interface {
	isNode()
}

// Leaf is a translation string.
type Leaf string

// Branch maps keys to child nodes. It is the only traversable node kind.
type Branch map[string]Node

// Opaque wraps a decoded value that is neither a string nor an object.
// Opaque nodes are never referenceable; they exist so diagnostics can name
// the actual shape found at a path.
type Opaque struct {
	Value any
}

func (Leaf) isNode()   {}
func (Branch) isNode() {}
func (Opaque) isNode() {}

// Shape returns a short human-readable description of a node's kind, used in
// error messages ("branch", "array", "number", ...).
func Shape(n Node) string {
	switch v := n.(type) {
	case Leaf:
		return "string"
	case Branch:
		return "branch"
	case Opaque:
		switch v.Value.(type) {
		case nil:
			return "null"
		case bool:
			return "bool"
		case []any:
			return "array"
		case int, int64, float64:
			return "number"
		default:
			return fmt.Sprintf("%T", v.Value)
		}
	default:
		return fmt.Sprintf("%T", n)
	}
}

// FromAny converts a decoded catalog value (the map[string]any shape produced
// by JSON/TOML/YAML unmarshaling) into a message tree. Strings become leaves,
// maps become branches, everything else becomes Opaque.
func FromAny(v any) Node {
	switch val := v.(type) {
	case string:
		return Leaf(val)
	case map[string]any:
		b := make(Branch, len(val))
		for k, child := range val {
			b[k] = FromAny(child)
		}
		return b
	case map[any]any:
		// yaml.v3 decodes nested maps this way when keys are untyped.
		b := make(Branch, len(val))
		for k, child := range val {
			b[fmt.Sprintf("%v", k)] = FromAny(child)
		}
		return b
	default:
		return Opaque{Value: v}
	}
}

// ToAny converts a message tree back into the map[string]any shape expected
// by JSON/TOML/YAML marshalers, for exporting resolved catalogs.
func ToAny(n Node) any {
	switch v := n.(type) {
	case Leaf:
		return string(v)
	case Branch:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = ToAny(child)
		}
		return out
	case Opaque:
		return v.Value
	default:
		return nil
	}
}

// At traverses the tree segment by segment along a dotted path and returns
// the node at the terminal segment. Descending through a non-Branch before
// the path is exhausted, or hitting an absent key, fails with
// *PathNotFoundError naming the full path and the failing segment.
func (b Branch) At(path string) (Node, error) {
	var current Node = b
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		branch, ok := current.(Branch)
		if !ok {
			return nil, &PathNotFoundError{Path: path, Segment: strings.Join(segments[:i], ".")}
		}
		next, ok := branch[seg]
		if !ok {
			return nil, &PathNotFoundError{Path: path, Segment: strings.Join(segments[:i+1], ".")}
		}
		current = next
	}
	return current, nil
}

// Merge deep-merges other into a copy of b. Branches merge recursively;
// any other collision is reported as a conflict path and other's value wins.
func (b Branch) Merge(other Branch) (Branch, []string) {
	var conflicts []string
	merged := b.mergeInto(other, "", &conflicts)
	return merged, conflicts
}

func (b Branch) mergeInto(other Branch, prefix string, conflicts *[]string) Branch {
	out := make(Branch, len(b)+len(other))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range other {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		existing, present := out[k]
		if !present {
			out[k] = v
			continue
		}
		eb, okE := existing.(Branch)
		vb, okV := v.(Branch)
		if okE && okV {
			out[k] = eb.mergeInto(vb, full, conflicts)
			continue
		}
		*conflicts = append(*conflicts, full)
		out[k] = v
	}
	return out
}

// Flatten returns every leaf in the tree as a dotted path → value map.
// Opaque nodes are skipped; only string leaves are translation content.
func (b Branch) Flatten() map[string]string {
	out := make(map[string]string)
	b.flattenInto("", out)
	return out
}

func (b Branch) flattenInto(prefix string, out map[string]string) {
	for k, v := range b {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch child := v.(type) {
		case Leaf:
			out[full] = string(child)
		case Branch:
			child.flattenInto(full, out)
		}
	}
}

// Keys returns the sorted dotted paths of every leaf in the tree. Sorted
// output keeps parity checks and CLI listings deterministic.
func (b Branch) Keys() []string {
	flat := b.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
