// Package trellis provides reference resolution and validation for message
// catalogs, the per-locale trees of translation strings behind localized
// content sites. Translation strings may embed cross-references to other
// strings in the same tree (`@:shared.title`, `@.upper:shared.title`);
// trellis expands them, detects cycles, and validates reference integrity
// across every locale before the site builds.
//
// # Reference syntax
//
// A reference token is `@`, an optional `.modifier`, a `:`, and a dotted
// path into the catalog tree:
//
//	@:shared.common.title
//	@.upper:shared.common.title
//	@.capitalize:nav.home
//
// Modifiers form a closed set: upper, lower, capitalize. The path is looked
// up from the tree root; the resolved value may itself contain references,
// which are expanded recursively to arbitrary depth, bounded by cycle
// detection.
//
// # Pipeline
//
// trellis operates in three phases:
//
//  1. Load: discover per-locale catalog files (JSON, TOML, YAML) under a
//     locales root and decode each locale into one immutable message tree.
//
//  2. Validate: for every leaf string, extract every reference token and
//     check path, target type, modifier, and cycles. Validation accumulates
//     every problem across every string and every locale; it never stops at
//     the first error, because the consumer is a human fixing content.
//
//  3. Resolve: expand every reference in every leaf, producing fully
//     substituted catalogs for build-time export or runtime translation.
//
// # Usage
//
// Create an Engine, load a locales directory, validate, and resolve:
//
//	e := trellis.NewEngine(trellis.WithLocales("en", "fr"))
//	if err := e.Load(ctx, "locales"); err != nil { ... }
//
//	diags, err := e.Validate(ctx)
//	resolved, err := e.ResolveAll(ctx)
//
// The low-level pieces are exported for direct use: [References] extracts
// tokens from a string, [Branch.At] performs dotted-path lookup, and
// [Resolver.Resolve] expands a single string against a tree.
//
// # Incremental validation
//
// [Engine.Validate] can cache per-locale diagnostics in a SQLite database
// keyed by the aggregate content hash of the locale's files, replaying
// results for unchanged locales. Use [WithCachePath] to enable the cache; it
// is opened per run and holds no process-global state.
package trellis
