package trellis

import (
	"errors"

	"github.com/agext/levenshtein"
)

// Diagnostic kinds.
const (
	KindPathNotFound        = "path-not-found"
	KindNotString           = "not-string"
	KindUnsupportedModifier = "unsupported-modifier"
	KindCircularReference   = "circular-reference"
	KindMissingKey          = "missing-key"
	KindExtraKey            = "extra-key"
	KindMergeConflict       = "merge-conflict"
)

// Severity of a diagnostic. Reference integrity problems are errors;
// cross-locale parity problems are warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one accumulated validation problem, tagged with the logical
// path of the originating string and, when known, the originating catalog
// file.
type Diagnostic struct {
	Locale     string   `json:"locale,omitempty"`
	File       string   `json:"file,omitempty"`
	Key        string   `json:"key"`
	Ref        string   `json:"ref,omitempty"`
	Kind       string   `json:"kind"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Validator checks reference integrity across a message tree. It never stops
// at the first problem: every token of every leaf is checked, and full
// resolution is attempted per leaf to additionally catch cycles and
// deep-path failures that single-token checks cannot see.
type Validator struct {
	resolver *Resolver
	suggest  bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithSuggestions controls whether PathNotFound diagnostics carry a
// nearest-valid-path suggestion. Enabled by default.
func WithSuggestions(enabled bool) ValidatorOption {
	return func(v *Validator) {
		v.suggest = enabled
	}
}

// WithResolver sets the Resolver used for full-resolution checks, letting
// callers share a case-language configuration.
func WithResolver(r *Resolver) ValidatorOption {
	return func(v *Validator) {
		v.resolver = r
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		resolver: NewResolver(),
		suggest:  true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every leaf of root and returns every problem found, in
// sorted key order. Within one leaf, token diagnostics preserve
// left-to-right discovery order.
func (v *Validator) Validate(root Branch) []Diagnostic {
	flat := root.Flatten()
	keys := root.Keys()

	var diags []Diagnostic
	for _, key := range keys {
		diags = append(diags, v.validateLeaf(key, flat[key], root, keys)...)
	}
	return diags
}

// validateLeaf checks one translation string: every token independently,
// then full resolution for problems only visible end to end.
func (v *Validator) validateLeaf(key, value string, root Branch, leafKeys []string) []Diagnostic {
	var diags []Diagnostic

	// Tracks which problems the per-token pass already reported, so the
	// full-resolution pass only adds what single-token checks cannot see.
	seen := make(map[string]bool)

	for ref := range References(value) {
		if _, err := v.resolver.applyModifier("", ref.Modifier); err != nil {
			diags = append(diags, v.diagnostic(key, ref.Raw, err, leafKeys))
			seen[errorIdentity(err)] = true
		}

		node, err := root.At(ref.Path)
		if err != nil {
			diags = append(diags, v.diagnostic(key, ref.Raw, err, leafKeys))
			seen[errorIdentity(err)] = true
			continue
		}
		if _, ok := node.(Leaf); !ok {
			err := &NotStringError{Path: ref.Path, Shape: Shape(node)}
			diags = append(diags, v.diagnostic(key, ref.Raw, err, leafKeys))
			seen[errorIdentity(err)] = true
		}
	}

	if _, err := v.resolver.Resolve(value, root, []string{key}); err != nil {
		if !seen[errorIdentity(err)] {
			diags = append(diags, v.diagnostic(key, "", err, leafKeys))
		}
	}

	return diags
}

// diagnostic converts a resolution error into a Diagnostic, attaching a
// nearest-path suggestion for unknown paths.
func (v *Validator) diagnostic(key, raw string, err error, leafKeys []string) Diagnostic {
	d := Diagnostic{
		Key:      key,
		Ref:      raw,
		Kind:     errorKind(err),
		Severity: SeverityError,
		Message:  err.Error(),
	}
	var pathErr *PathNotFoundError
	if v.suggest && errors.As(err, &pathErr) {
		d.Suggestion = nearestKey(pathErr.Path, leafKeys)
	}
	return d
}

// errorKind maps a resolution error to its diagnostic kind.
func errorKind(err error) string {
	var (
		pathErr *PathNotFoundError
		typeErr *NotStringError
		modErr  *UnsupportedModifierError
		cycErr  *CircularReferenceError
	)
	switch {
	case errors.As(err, &pathErr):
		return KindPathNotFound
	case errors.As(err, &typeErr):
		return KindNotString
	case errors.As(err, &modErr):
		return KindUnsupportedModifier
	case errors.As(err, &cycErr):
		return KindCircularReference
	default:
		return "error"
	}
}

// errorIdentity returns a stable identity for deduplicating the same problem
// reported by both the per-token pass and the full-resolution pass.
func errorIdentity(err error) string {
	var (
		pathErr *PathNotFoundError
		typeErr *NotStringError
		modErr  *UnsupportedModifierError
	)
	switch {
	case errors.As(err, &pathErr):
		return KindPathNotFound + ":" + pathErr.Path
	case errors.As(err, &typeErr):
		return KindNotString + ":" + typeErr.Path
	case errors.As(err, &modErr):
		return KindUnsupportedModifier + ":" + modErr.Modifier
	default:
		return err.Error()
	}
}

// nearestKey returns the closest valid leaf path to path by Levenshtein
// distance, or "" when nothing is close enough to be a plausible fix.
func nearestKey(path string, leafKeys []string) string {
	best := ""
	bestDist := -1
	for _, candidate := range leafKeys {
		d := levenshtein.Distance(path, candidate, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	// A suggestion further away than half the path length is noise.
	if best == "" || bestDist*2 > len(path) {
		return ""
	}
	return best
}
