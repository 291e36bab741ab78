package trellis

import (
	"iter"
	"regexp"
)

// Reference is one occurrence of a reference token inside a translation
// string.
type Reference struct {
	// Raw is the full matched substring, e.g. "@.upper:shared.title".
	Raw string
	// Modifier is the optional modifier name ("" when absent).
	Modifier string
	// Path is the dotted path into the message tree.
	Path string
}

// referencePattern is the token grammar: "@", an optional "." plus modifier
// word, ":", and a path of non-whitespace characters. The path stops at the
// first character that cannot be part of a path, so adjacent whitespace is
// never consumed.
var referencePattern = regexp.MustCompile(`@(?:\.(\w+))?:(\S+)`)

// References scans s left to right and yields every non-overlapping
// reference token in order of appearance. Extraction is purely syntactic: it
// never looks up or validates paths, so callers can list every token in a
// broken string without stopping at the first problem. The sequence is lazy
// and restartable.
func References(s string) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		pos := 0
		for pos < len(s) {
			loc := referencePattern.FindStringSubmatchIndex(s[pos:])
			if loc == nil {
				return
			}
			ref := Reference{
				Raw:  s[pos+loc[0] : pos+loc[1]],
				Path: s[pos+loc[4] : pos+loc[5]],
			}
			if loc[2] >= 0 {
				ref.Modifier = s[pos+loc[2] : pos+loc[3]]
			}
			if !yield(ref) {
				return
			}
			pos += loc[1]
		}
	}
}

// ContainsReference reports whether s holds at least one reference token.
func ContainsReference(s string) bool {
	return referencePattern.MatchString(s)
}
