package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains a reference sequence into a slice.
func collect(s string) []Reference {
	var refs []Reference
	for ref := range References(s) {
		refs = append(refs, ref)
	}
	return refs
}

func TestReferences_Extraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Reference
	}{
		{
			name:  "no tokens",
			input: "plain text",
			want:  nil,
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "bare reference",
			input: "@:shared.title",
			want:  []Reference{{Raw: "@:shared.title", Path: "shared.title"}},
		},
		{
			name:  "reference with modifier",
			input: "@.upper:shared.title",
			want:  []Reference{{Raw: "@.upper:shared.title", Modifier: "upper", Path: "shared.title"}},
		},
		{
			name:  "unknown modifiers extract fine",
			input: "@.shout:a.b",
			want:  []Reference{{Raw: "@.shout:a.b", Modifier: "shout", Path: "a.b"}},
		},
		{
			name:  "multiple tokens in order",
			input: "@:a.b and @.lower:a.c",
			want: []Reference{
				{Raw: "@:a.b", Path: "a.b"},
				{Raw: "@.lower:a.c", Modifier: "lower", Path: "a.c"},
			},
		},
		{
			name:  "path stops at whitespace",
			input: "see @:nav.home for details",
			want:  []Reference{{Raw: "@:nav.home", Path: "nav.home"}},
		},
		{
			name:  "trailing punctuation is part of the path",
			input: "see @:nav.home.",
			want:  []Reference{{Raw: "@:nav.home.", Path: "nav.home."}},
		},
		{
			name:  "at sign without colon is not a token",
			input: "contact us@example org",
			want:  nil,
		},
		{
			name:  "surrounded by text",
			input: "x@:a.by",
			want:  []Reference{{Raw: "@:a.by", Path: "a.by"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(tt.input))
		})
	}
}

func TestReferences_NeverResolves(t *testing.T) {
	t.Parallel()

	// Extraction is purely syntactic: broken paths and bad modifiers all
	// extract, so a validator can report every problem in one string.
	refs := collect("@:totally.missing @.bogus:also.missing")
	require.Len(t, refs, 2)
	assert.Equal(t, "totally.missing", refs[0].Path)
	assert.Equal(t, "bogus", refs[1].Modifier)
}

func TestReferences_Restartable(t *testing.T) {
	t.Parallel()

	seq := References("@:a @:b")
	first := make([]Reference, 0, 2)
	for ref := range seq {
		first = append(first, ref)
	}
	second := make([]Reference, 0, 2)
	for ref := range seq {
		second = append(second, ref)
	}
	assert.Equal(t, first, second)
}

func TestReferences_EarlyBreak(t *testing.T) {
	t.Parallel()

	var got []Reference
	for ref := range References("@:a @:b @:c") {
		got = append(got, ref)
		if len(got) == 2 {
			break
		}
	}
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Path)
	assert.Equal(t, "b", got[1].Path)
}

func TestContainsReference(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsReference("@:a"))
	assert.True(t, ContainsReference("text @.upper:a.b text"))
	assert.False(t, ContainsReference("plain"))
	assert.False(t, ContainsReference("not@a.reference"))
}
