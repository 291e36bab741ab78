package trellis

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jward/trellis/internal/catalog"
	"github.com/jward/trellis/internal/store"
)

// Catalog is one locale's loaded message tree, merged from every catalog
// file discovered for that locale.
type Catalog struct {
	Locale string
	Files  []string
	Root   Branch

	// hash is the aggregate content hash of every file in the locale, used
	// as the incremental validation cache key.
	hash string

	// origins maps top-level keys to the file that first defined them, so
	// diagnostics can name the originating catalog file.
	origins map[string]string
}

// FileFor returns the catalog file that owns key's top-level namespace, or
// "" when unknown.
func (c *Catalog) FileFor(key string) string {
	top, _, _ := strings.Cut(key, ".")
	return c.origins[top]
}

// Engine orchestrates the trellis pipeline: catalog discovery, per-locale
// loading and merging, reference validation with an optional incremental
// cache, and full reference expansion.
type Engine struct {
	resolver  *Resolver
	validator *Validator

	locales       map[string]bool // nil means all discovered locales
	defaultLocale string
	cachePath     string
	useParallel   bool

	catalogs  map[string]*Catalog
	loadDiags []Diagnostic
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocales restricts which discovered locales the Engine loads.
func WithLocales(locales ...string) Option {
	return func(e *Engine) {
		e.locales = make(map[string]bool, len(locales))
		for _, l := range locales {
			e.locales[l] = true
		}
	}
}

// WithDefaultLocale sets the locale other locales are compared against for
// key parity. Defaults to "en".
func WithDefaultLocale(locale string) Option {
	return func(e *Engine) {
		e.defaultLocale = locale
	}
}

// WithCachePath enables the incremental validation cache at the given
// SQLite database path. The cache is opened per Validate run and closed
// before it returns; there is no process-global cache state.
func WithCachePath(path string) Option {
	return func(e *Engine) {
		e.cachePath = path
	}
}

// WithParallel controls per-locale parallel validation. When true (default),
// Validate fans locales out to a worker pool; each locale's tree is
// read-only during validation so no locking is involved.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithValidator sets the Validator used by Validate, letting callers
// configure suggestions and the full-resolution resolver in one place.
func WithValidator(v *Validator) Option {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithResolverOptions configures the Resolver the Engine uses for
// ResolveAll.
func WithResolverOptions(opts ...ResolverOption) Option {
	return func(e *Engine) {
		e.resolver = NewResolver(opts...)
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolver:      NewResolver(),
		defaultLocale: "en",
		useParallel:   true,
		catalogs:      make(map[string]*Catalog),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.validator == nil {
		e.validator = NewValidator(WithResolver(e.resolver))
	}
	return e
}

// Load discovers catalog files under root and builds one merged message
// tree per locale. Merge conflicts (a key defined again by a later file of
// the same locale) are recorded as warning diagnostics and
// surfaced by Validate; the later file wins.
func (e *Engine) Load(ctx context.Context, root string) error {
	byLocale, err := catalog.Discover(root)
	if err != nil {
		return fmt.Errorf("trellis: discover catalogs: %w", err)
	}

	locales := make([]string, 0, len(byLocale))
	for locale := range byLocale {
		if e.locales != nil && !e.locales[locale] {
			continue
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		cat, diags, err := e.loadLocale(locale, byLocale[locale])
		if err != nil {
			return err
		}
		e.catalogs[locale] = cat
		e.loadDiags = append(e.loadDiags, diags...)
	}
	return nil
}

// loadLocale decodes and merges one locale's catalog files.
func (e *Engine) loadLocale(locale string, paths []string) (*Catalog, []Diagnostic, error) {
	cat := &Catalog{
		Locale:  locale,
		Files:   paths,
		Root:    Branch{},
		origins: make(map[string]string),
	}
	var diags []Diagnostic

	h := sha256.New()
	for _, path := range paths {
		doc, err := catalog.Load(path, locale)
		if err != nil {
			return nil, nil, fmt.Errorf("trellis: %w", err)
		}
		fmt.Fprintf(h, "%s\x00%s\x00", path, doc.Hash)

		tree, ok := FromAny(doc.Data).(Branch)
		if !ok {
			return nil, nil, fmt.Errorf("trellis: load %s: catalog root is not an object", path)
		}
		for top := range tree {
			if _, known := cat.origins[top]; !known {
				cat.origins[top] = path
			}
		}

		merged, conflicts := cat.Root.Merge(tree)
		cat.Root = merged
		for _, key := range conflicts {
			diags = append(diags, Diagnostic{
				Locale:   locale,
				File:     path,
				Key:      key,
				Kind:     KindMergeConflict,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("key %q is defined more than once; the value from %s wins", key, path),
			})
		}
	}
	cat.hash = fmt.Sprintf("%x", h.Sum(nil))

	return cat, diags, nil
}

// Locales returns the loaded locales in sorted order.
func (e *Engine) Locales() []string {
	locales := make([]string, 0, len(e.catalogs))
	for l := range e.catalogs {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Catalog returns the loaded catalog for a locale, or nil.
func (e *Engine) Catalog(locale string) *Catalog {
	return e.catalogs[locale]
}

// Graph builds the reference graph for a locale's tree.
func (e *Engine) Graph(locale string) (*Graph, error) {
	cat := e.catalogs[locale]
	if cat == nil {
		return nil, fmt.Errorf("trellis: locale %q is not loaded", locale)
	}
	return BuildGraph(cat.Root), nil
}

// Resolve fully expands the string at key in the given locale's tree.
func (e *Engine) Resolve(locale, key string) (string, error) {
	cat := e.catalogs[locale]
	if cat == nil {
		return "", fmt.Errorf("trellis: locale %q is not loaded", locale)
	}
	node, err := cat.Root.At(key)
	if err != nil {
		return "", err
	}
	leaf, ok := node.(Leaf)
	if !ok {
		return "", &NotStringError{Path: key, Shape: Shape(node)}
	}
	return e.resolver.Resolve(string(leaf), cat.Root, nil)
}

// Validate checks reference integrity for every loaded locale, plus key
// parity against the default locale. It accumulates every problem rather
// than stopping at the first: the caller is a human fixing content, not a
// runtime consumer.
//
// Diagnostics are grouped by locale in sorted locale order; within one
// string, token diagnostics preserve left-to-right discovery order. Load
// diagnostics (merge conflicts) come first, parity warnings last.
func (e *Engine) Validate(ctx context.Context) ([]Diagnostic, error) {
	diags := append([]Diagnostic(nil), e.loadDiags...)

	var cache *store.Store
	if e.cachePath != "" {
		var err error
		cache, err = store.NewStore(e.cachePath)
		if err != nil {
			return nil, fmt.Errorf("trellis: open cache: %w", err)
		}
		defer cache.Close()
		if err := cache.Migrate(); err != nil {
			return nil, fmt.Errorf("trellis: %w", err)
		}
	}

	perLocale, err := e.validateLocales(ctx, cache)
	if err != nil {
		return nil, err
	}
	for _, locale := range e.Locales() {
		diags = append(diags, perLocale[locale]...)
	}

	diags = append(diags, e.parityDiagnostics()...)

	if cache != nil {
		if err := cache.Prune(e.Locales()); err != nil {
			return nil, fmt.Errorf("trellis: %w", err)
		}
	}
	return diags, nil
}

// validateLocale runs bulk validation for one locale and stamps each
// diagnostic with its locale and originating file.
func (e *Engine) validateLocale(cat *Catalog) []Diagnostic {
	diags := e.validator.Validate(cat.Root)
	for i := range diags {
		diags[i].Locale = cat.Locale
		diags[i].File = cat.FileFor(diags[i].Key)
	}
	return diags
}

// cachedDiagnostics returns the cached diagnostics for a locale when its
// aggregate hash is unchanged, or (nil, false) on a miss.
func cachedDiagnostics(cache *store.Store, cat *Catalog) ([]Diagnostic, bool) {
	if cache == nil {
		return nil, false
	}
	entry, err := cache.Lookup(cat.Locale)
	if err != nil || entry == nil || entry.Hash != cat.hash {
		return nil, false
	}
	var diags []Diagnostic
	if err := json.Unmarshal(entry.Payload, &diags); err != nil {
		return nil, false
	}
	return diags, true
}

// storeDiagnostics persists a locale's diagnostics under its aggregate
// hash. Cache write failures are not fatal; the next run revalidates.
func storeDiagnostics(cache *store.Store, cat *Catalog, diags []Diagnostic) {
	if cache == nil {
		return
	}
	payload, err := json.Marshal(diags)
	if err != nil {
		return
	}
	_ = cache.Put(cat.Locale, cat.hash, payload)
}

// parityDiagnostics compares every locale's key set against the default
// locale: keys missing from a locale and keys a locale has that the default
// does not are both warnings.
func (e *Engine) parityDiagnostics() []Diagnostic {
	base := e.catalogs[e.defaultLocale]
	if base == nil {
		return nil
	}
	baseKeys := base.Root.Keys()
	baseSet := make(map[string]bool, len(baseKeys))
	for _, k := range baseKeys {
		baseSet[k] = true
	}

	var diags []Diagnostic
	for _, locale := range e.Locales() {
		if locale == e.defaultLocale {
			continue
		}
		cat := e.catalogs[locale]
		keys := cat.Root.Keys()
		set := make(map[string]bool, len(keys))
		for _, k := range keys {
			set[k] = true
		}

		for _, k := range baseKeys {
			if !set[k] {
				diags = append(diags, Diagnostic{
					Locale:   locale,
					File:     base.FileFor(k),
					Key:      k,
					Kind:     KindMissingKey,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("key %q exists in %s but is missing from %s", k, e.defaultLocale, locale),
				})
			}
		}
		for _, k := range keys {
			if !baseSet[k] {
				diags = append(diags, Diagnostic{
					Locale:   locale,
					File:     cat.FileFor(k),
					Key:      k,
					Kind:     KindExtraKey,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("key %q exists in %s but not in %s", k, locale, e.defaultLocale),
				})
			}
		}
	}
	return diags
}

// ResolveAll expands every reference in every loaded locale and returns the
// fully substituted trees, keyed by locale. Any resolution error aborts:
// callers that want the full problem list should Validate first.
func (e *Engine) ResolveAll(ctx context.Context) (map[string]Branch, error) {
	resolved := make(map[string]Branch, len(e.catalogs))
	for _, locale := range e.Locales() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cat := e.catalogs[locale]
		tree, err := e.resolveBranch(cat.Root, cat.Root, "")
		if err != nil {
			return nil, fmt.Errorf("trellis: resolve locale %s: %w", locale, err)
		}
		resolved[locale] = tree
	}
	return resolved, nil
}

// resolveBranch returns a copy of b with every leaf fully resolved against
// root. Opaque nodes are carried through untouched.
func (e *Engine) resolveBranch(b Branch, root Branch, prefix string) (Branch, error) {
	out := make(Branch, len(b))
	for k, v := range b {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch child := v.(type) {
		case Leaf:
			s, err := e.resolver.Resolve(string(child), root, nil)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", full, err)
			}
			out[k] = Leaf(s)
		case Branch:
			nested, err := e.resolveBranch(child, root, full)
			if err != nil {
				return nil, err
			}
			out[k] = nested
		default:
			out[k] = v
		}
	}
	return out, nil
}
