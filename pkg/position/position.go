// Package position provides byte-offset spans over template source text and
// their translation to human-readable line/column places.
package position

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Place is a 1-based line/column location. Columns are counted in grapheme
// clusters, not bytes, so multi-byte and combining characters occupy one
// column each.
type Place struct {
	Line   int
	Column int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PlaceOf translates a byte offset in src to a Place. Offsets past the end
// of src are clamped to the end.
func PlaceOf(src string, offset int) Place {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}

	line := 1 + strings.Count(src[:offset], "\n")

	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	count, err := textseg.TokenCount([]byte(src[lineStart:offset]), textseg.ScanGraphemeClusters)
	if err != nil {
		// TokenCount over a valid split function cannot fail; fall back to
		// byte counting rather than losing the position entirely.
		count = offset - lineStart
	}

	return Place{Line: line, Column: 1 + count}
}

// RangeOf translates a span in src to its start and end places.
func RangeOf(src string, span Span) (start, end Place) {
	return PlaceOf(src, span.Start), PlaceOf(src, span.End)
}
