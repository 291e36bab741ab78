package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanTreeHasNoDiagnostics(t *testing.T) {
	t.Parallel()
	v := NewValidator()
	tree := Branch{
		"shared": Branch{"title": Leaf("Tools")},
		"home":   Branch{"heading": Leaf("Welcome to @:shared.title")},
	}

	assert.Empty(t, v.Validate(tree))
}

func TestValidate_AccumulatesAllProblemsInOneString(t *testing.T) {
	t.Parallel()
	v := NewValidator(WithSuggestions(false))
	tree := Branch{
		"broken": Leaf("@:missing.one then @:missing.two"),
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 2)
	// Left-to-right discovery order within one string.
	assert.Equal(t, "@:missing.one", diags[0].Ref)
	assert.Equal(t, "@:missing.two", diags[1].Ref)
	for _, d := range diags {
		assert.Equal(t, KindPathNotFound, d.Kind)
		assert.Equal(t, SeverityError, d.Severity)
		assert.Equal(t, "broken", d.Key)
	}
}

func TestValidate_MixedProblemKinds(t *testing.T) {
	t.Parallel()
	v := NewValidator(WithSuggestions(false))
	tree := Branch{
		"nav": Branch{"home": Leaf("Home")},
		"bad": Leaf("@.shout:nav.home and @:nav and @:gone"),
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 3)
	assert.Equal(t, KindUnsupportedModifier, diags[0].Kind)
	assert.Equal(t, KindNotString, diags[1].Kind)
	assert.Equal(t, KindPathNotFound, diags[2].Kind)
}

func TestValidate_CycleReportedOnce(t *testing.T) {
	t.Parallel()
	v := NewValidator()
	tree := Branch{
		"a": Leaf("@:b"),
		"b": Leaf("@:a"),
	}

	diags := v.Validate(tree)
	// Each leaf reports the cycle once; token checks see nothing wrong
	// (both paths exist and are strings), only full resolution does.
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, KindCircularReference, d.Kind)
		assert.Empty(t, d.Ref)
	}
}

func TestValidate_DeepFailureNotVisibleFromTokens(t *testing.T) {
	t.Parallel()
	v := NewValidator(WithSuggestions(false))
	tree := Branch{
		"top":    Leaf("@:middle"),
		"middle": Leaf("@:gone.deep"),
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 2)

	// "middle" reports its broken token once: the full-resolution pass
	// dedupes the identical problem.
	assert.Equal(t, "middle", diags[0].Key)
	assert.Equal(t, "@:gone.deep", diags[0].Ref)
	assert.Equal(t, KindPathNotFound, diags[0].Kind)

	// "top" has a valid token but fails end to end; only the
	// full-resolution pass catches it, so no token is attached.
	assert.Equal(t, "top", diags[1].Key)
	assert.Empty(t, diags[1].Ref)
	assert.Equal(t, KindPathNotFound, diags[1].Kind)
}

func TestValidate_NoDuplicateForDirectProblems(t *testing.T) {
	t.Parallel()
	v := NewValidator(WithSuggestions(false))
	tree := Branch{"bad": Leaf("@:missing")}

	diags := v.Validate(tree)
	require.Len(t, diags, 1)
	assert.Equal(t, KindPathNotFound, diags[0].Kind)
}

func TestValidate_Suggestions(t *testing.T) {
	t.Parallel()
	v := NewValidator()
	tree := Branch{
		"shared": Branch{"title": Leaf("T")},
		"home":   Branch{"h": Leaf("@:shared.titel")},
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 1)
	assert.Equal(t, KindPathNotFound, diags[0].Kind)
	assert.Equal(t, "shared.title", diags[0].Suggestion)
}

func TestValidate_NoSuggestionWhenNothingClose(t *testing.T) {
	t.Parallel()
	v := NewValidator()
	tree := Branch{
		"a":   Branch{"b": Leaf("x")},
		"bad": Leaf("@:completely.unrelated.path"),
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 1)
	assert.Empty(t, diags[0].Suggestion)
}

func TestValidate_SortedKeyOrder(t *testing.T) {
	t.Parallel()
	v := NewValidator(WithSuggestions(false))
	tree := Branch{
		"z": Leaf("@:gone"),
		"a": Leaf("@:gone"),
	}

	diags := v.Validate(tree)
	require.Len(t, diags, 2)
	assert.Equal(t, "a", diags[0].Key)
	assert.Equal(t, "z", diags[1].Key)
}

func TestNearestKey(t *testing.T) {
	t.Parallel()

	keys := []string{"shared.title", "shared.subtitle", "nav.home"}
	assert.Equal(t, "shared.title", nearestKey("shared.titel", keys))
	assert.Equal(t, "nav.home", nearestKey("nav.hom", keys))
	assert.Empty(t, nearestKey("zz", keys))
	assert.Empty(t, nearestKey("anything", nil))
}
