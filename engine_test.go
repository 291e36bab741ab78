package trellis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLocaleFile creates a catalog file under dir, creating parents.
func writeLocaleFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fixtureLocales builds a two-locale root mixing the flat and nested layouts
// and all three catalog formats.
func fixtureLocales(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.json", `{
		"shared": {"appName": "Trellis"},
		"home": {"title": "Welcome to @:shared.appName"}
	}`)
	writeLocaleFile(t, dir, "fr/shared.toml", "[shared]\nappName = \"Trellis\"\n")
	writeLocaleFile(t, dir, "fr/home.yaml", "home:\n  title: \"Bienvenue sur @:shared.appName\"\n")
	return dir
}

func loadedEngine(t *testing.T, root string, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(opts...)
	require.NoError(t, e.Load(context.Background(), root))
	return e
}

func TestEngineLoad(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t))

	assert.Equal(t, []string{"en", "fr"}, e.Locales())

	en := e.Catalog("en")
	require.NotNil(t, en)
	require.Len(t, en.Files, 1)
	assert.Equal(t, []string{"home.title", "shared.appName"}, en.Root.Keys())

	fr := e.Catalog("fr")
	require.NotNil(t, fr)
	require.Len(t, fr.Files, 2)
	assert.Equal(t, []string{"home.title", "shared.appName"}, fr.Root.Keys())
	assert.Contains(t, fr.FileFor("home.title"), "home.yaml")
	assert.Contains(t, fr.FileFor("shared.appName"), "shared.toml")
}

func TestEngineLoad_LocaleFilter(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t), WithLocales("fr"))

	assert.Equal(t, []string{"fr"}, e.Locales())
	assert.Nil(t, e.Catalog("en"))
}

func TestEngineLoad_MissingRoot(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	err := e.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "locales root not found")
}

func TestEngineValidate_Clean(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t))

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestEngineValidate_StampsLocaleAndFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.json", `{"home": {"title": "@:gone"}}`)
	e := loadedEngine(t, dir)

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "en", diags[0].Locale)
	assert.Contains(t, diags[0].File, "en.json")
	assert.Equal(t, "home.title", diags[0].Key)
	assert.Equal(t, KindPathNotFound, diags[0].Kind)
}

func TestEngineValidate_MergeConflict(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en/a.json", `{"shared": {"title": "First"}}`)
	writeLocaleFile(t, dir, "en/b.json", `{"shared": {"title": "Second"}}`)
	e := loadedEngine(t, dir)

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, KindMergeConflict, diags[0].Kind)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, "shared.title", diags[0].Key)
	assert.Contains(t, diags[0].File, "b.json")

	// Later file wins.
	got, err := e.Resolve("en", "shared.title")
	require.NoError(t, err)
	assert.Equal(t, "Second", got)
}

func TestEngineValidate_Parity(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.json", `{"a": "A", "b": "B"}`)
	writeLocaleFile(t, dir, "fr.json", `{"a": "A", "c": "C"}`)
	e := loadedEngine(t, dir)

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, KindMissingKey, diags[0].Kind)
	assert.Equal(t, "b", diags[0].Key)
	assert.Equal(t, "fr", diags[0].Locale)

	assert.Equal(t, KindExtraKey, diags[1].Kind)
	assert.Equal(t, "c", diags[1].Key)
	assert.Equal(t, "fr", diags[1].Locale)
	for _, d := range diags {
		assert.Equal(t, SeverityWarning, d.Severity)
	}
}

func TestEngineValidate_ParitySkippedWithoutDefaultLocale(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "fr.json", `{"a": "A"}`)
	e := loadedEngine(t, dir) // default locale "en" is not loaded

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestEngineValidate_Serial(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.json", `{"x": "@:gone"}`)
	writeLocaleFile(t, dir, "fr.json", `{"x": "@:gone"}`)
	e := loadedEngine(t, dir, WithParallel(false))

	diags, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "en", diags[0].Locale)
	assert.Equal(t, "fr", diags[1].Locale)
}

func TestEngineValidate_Cache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	enPath := writeLocaleFile(t, dir, "en.json", `{"x": "@:gone"}`)
	cachePath := filepath.Join(t.TempDir(), "trellis.db")
	e := loadedEngine(t, dir, WithCachePath(cachePath))

	first, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second run on unchanged content serves from the cache and must be
	// indistinguishable from a fresh validation.
	e2 := loadedEngine(t, dir, WithCachePath(cachePath))
	second, err := e2.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Changing the file invalidates the locale's cache entry.
	require.NoError(t, os.WriteFile(enPath, []byte(`{"gone": "g", "x": "@:gone"}`), 0o644))
	e3 := loadedEngine(t, dir, WithCachePath(cachePath))
	third, err := e3.Validate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestEngineResolve(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t))

	got, err := e.Resolve("en", "home.title")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Trellis", got)

	got, err = e.Resolve("fr", "home.title")
	require.NoError(t, err)
	assert.Equal(t, "Bienvenue sur Trellis", got)

	_, err = e.Resolve("de", "home.title")
	assert.ErrorContains(t, err, "not loaded")

	_, err = e.Resolve("en", "home")
	var typeErr *NotStringError
	assert.ErrorAs(t, err, &typeErr)
}

func TestEngineResolveAll(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t))

	resolved, err := e.ResolveAll(context.Background())
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "Welcome to Trellis", resolved["en"].Flatten()["home.title"])
	assert.Equal(t, "Bienvenue sur Trellis", resolved["fr"].Flatten()["home.title"])
}

func TestEngineResolveAll_BrokenReference(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeLocaleFile(t, dir, "en.json", `{"x": "@:gone"}`)
	e := loadedEngine(t, dir)

	_, err := e.ResolveAll(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolve locale en")
	var pathErr *PathNotFoundError
	assert.ErrorAs(t, err, &pathErr)
}

func TestEngineGraph(t *testing.T) {
	t.Parallel()
	e := loadedEngine(t, fixtureLocales(t))

	g, err := e.Graph("en")
	require.NoError(t, err)
	assert.Equal(t, []string{"shared.appName"}, g.ReferencesFrom("home.title"))

	_, err = e.Graph("de")
	assert.ErrorContains(t, err, "not loaded")
}
