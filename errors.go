package trellis

import (
	"fmt"
	"strings"
)

// PathNotFoundError reports a dotted path that does not resolve to any value
// in the tree. Segment is the longest prefix of Path at which traversal
// failed.
type PathNotFoundError struct {
	Path    string
	Segment string
}

func (e *PathNotFoundError) Error() string {
	if e.Segment != "" && e.Segment != e.Path {
		return fmt.Sprintf("path %q not found in message tree (failed at %q)", e.Path, e.Segment)
	}
	return fmt.Sprintf("path %q not found in message tree", e.Path)
}

// NotStringError reports a reference whose target exists but is not a string
// leaf. Only string leaves are referenceable.
type NotStringError struct {
	Path  string
	Shape string
}

func (e *NotStringError) Error() string {
	return fmt.Sprintf("reference %q points at a %s, not a string; only string leaves are referenceable", e.Path, e.Shape)
}

// UnsupportedModifierError reports a modifier outside the recognized set.
type UnsupportedModifierError struct {
	Modifier string
}

func (e *UnsupportedModifierError) Error() string {
	return fmt.Sprintf("unsupported modifier %q: valid modifiers are upper, lower, capitalize", e.Modifier)
}

// CircularReferenceError reports a reference cycle. Chain holds the dotted
// paths in resolution order, ending with the repeated path.
type CircularReferenceError struct {
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference: %s", strings.Join(e.Chain, " -> "))
}
