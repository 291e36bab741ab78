package trellis

import (
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recognized modifier names. The set is closed: any other modifier fails
// resolution with *UnsupportedModifierError.
const (
	ModifierUpper      = "upper"
	ModifierLower      = "lower"
	ModifierCapitalize = "capitalize"
)

// Resolver expands reference tokens inside translation strings. A Resolver
// is stateless between calls and safe for concurrent use on a read-only
// tree.
type Resolver struct {
	tag language.Tag
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCaseLanguage sets the language used for case mapping by the upper,
// lower, and capitalize modifiers. Defaults to language.Und (language-neutral
// Unicode case mapping).
func WithCaseLanguage(tag language.Tag) ResolverOption {
	return func(r *Resolver) {
		r.tag = tag
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{tag: language.Und}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns s with every reference token replaced by its fully
// resolved value. chain holds the dotted paths currently being resolved in
// this call stack and exists solely for cycle detection; pass nil at the top
// level. Strings containing no tokens pass through unchanged.
//
// For each token, in order of appearance:
//  1. If the token's path is already in chain, fail with
//     *CircularReferenceError before any lookup, so a direct self-reference
//     is caught with a chain of length one.
//  2. Look the path up from the tree root (never from a nested position),
//     propagating *PathNotFoundError.
//  3. Fail with *NotStringError if the target is not a string leaf.
//  4. Recursively resolve the target with the token's path appended to the
//     chain, to arbitrary depth, bounded only by the cycle check.
//  5. Apply the token's modifier to the fully resolved value.
func (r *Resolver) Resolve(s string, root Branch, chain []string) (string, error) {
	if !ContainsReference(s) {
		return s, nil
	}

	var out strings.Builder
	pos := 0
	for pos < len(s) {
		loc := referencePattern.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		out.WriteString(s[pos : pos+loc[0]])

		ref := Reference{
			Raw:  s[pos+loc[0] : pos+loc[1]],
			Path: s[pos+loc[4] : pos+loc[5]],
		}
		if loc[2] >= 0 {
			ref.Modifier = s[pos+loc[2] : pos+loc[3]]
		}

		value, err := r.resolveToken(ref, root, chain)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		pos += loc[1]
	}
	out.WriteString(s[pos:])
	return out.String(), nil
}

// resolveToken expands a single reference token against the tree root.
func (r *Resolver) resolveToken(ref Reference, root Branch, chain []string) (string, error) {
	if slices.Contains(chain, ref.Path) {
		return "", &CircularReferenceError{Chain: append(slices.Clone(chain), ref.Path)}
	}

	node, err := root.At(ref.Path)
	if err != nil {
		return "", err
	}
	leaf, ok := node.(Leaf)
	if !ok {
		return "", &NotStringError{Path: ref.Path, Shape: Shape(node)}
	}

	resolved, err := r.Resolve(string(leaf), root, append(slices.Clone(chain), ref.Path))
	if err != nil {
		return "", err
	}
	return r.applyModifier(resolved, ref.Modifier)
}

// applyModifier transforms a fully resolved string. The empty modifier is
// the identity.
func (r *Resolver) applyModifier(s, modifier string) (string, error) {
	switch modifier {
	case "":
		return s, nil
	case ModifierUpper:
		return cases.Upper(r.tag).String(s), nil
	case ModifierLower:
		return cases.Lower(r.tag).String(s), nil
	case ModifierCapitalize:
		if s == "" {
			return s, nil
		}
		_, size := utf8.DecodeRuneInString(s)
		return cases.Upper(r.tag).String(s[:size]) + cases.Lower(r.tag).String(s[size:]), nil
	default:
		return "", &UnsupportedModifierError{Modifier: modifier}
	}
}
