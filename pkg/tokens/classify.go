package tokens

import (
	"strings"
	"unicode"
)

// Context is the syntactic position a raw path appeared in.
type Context int

const (
	// ContextTagName is an angle-bracket tag path, segments separated by "::".
	ContextTagName Context = iota
	// ContextCurlyPath is a mustache, block, sub-expression, or modifier
	// path, already written in its canonical dashed/slashed form.
	ContextCurlyPath
)

// ClassKind is the outcome of classifying a raw path.
type ClassKind int

const (
	// Skip means the path denotes no globally resolvable invocable: a caller
	// argument, a block-bound local, or ordinary markup.
	Skip ClassKind = iota
	// Component is a normalized angle-bracket component path.
	Component
	// Invocable is a curly-syntax component, helper, or modifier path.
	Invocable
)

// Classification is the result of Classify. Name is the normalized token and
// is empty when Kind is Skip.
type Classification struct {
	Kind ClassKind
	Name string
}

// Classify decides whether rawPath, appearing in the given syntactic context
// under the given scope, names a global invocable. Rules apply in order:
//
//  1. A leading "@" marks a caller-supplied argument: Skip, in any context.
//  2. A head segment bound by an enclosing block's params shadows any
//     identically named global entity: Skip.
//  3. In tag context, a tag not starting with an uppercase letter is plain
//     markup: Skip. Otherwise each "::" segment is dasherized and the
//     segments joined with "/": Component.
//  4. In curly context the author already wrote the canonical form:
//     Invocable, unchanged.
//
// Paths headed by the `this` keyword reference the component instance rather
// than a global name and are skipped.
func Classify(rawPath string, ctx Context, scope *Scope) Classification {
	if rawPath == "" || rawPath[0] == '@' {
		return Classification{Kind: Skip}
	}

	if scope.IsBound(pathHead(rawPath, ctx)) {
		return Classification{Kind: Skip}
	}

	if ctx == ContextTagName {
		if c := rawPath[0]; c < 'A' || c > 'Z' {
			return Classification{Kind: Skip}
		}
		segments := strings.Split(rawPath, "::")
		for i, seg := range segments {
			segments[i] = Dasherize(seg)
		}
		return Classification{Kind: Component, Name: strings.Join(segments, "/")}
	}

	if rawPath == "this" || strings.HasPrefix(rawPath, "this.") {
		return Classification{Kind: Skip}
	}
	return Classification{Kind: Invocable, Name: rawPath}
}

// pathHead returns the portion of rawPath before the first segment
// separator: "." or "/" in curly paths, additionally "::" in tag paths.
func pathHead(rawPath string, ctx Context) string {
	end := len(rawPath)
	if i := strings.IndexByte(rawPath, '.'); i >= 0 && i < end {
		end = i
	}
	if ctx == ContextTagName {
		if i := strings.Index(rawPath, "::"); i >= 0 && i < end {
			end = i
		}
	} else {
		if i := strings.IndexByte(rawPath, '/'); i >= 0 && i < end {
			end = i
		}
	}
	return rawPath[:end]
}

// Dasherize converts one capitalized/camel-style segment to its
// lowercase-with-hyphens form: a hyphen is inserted before each uppercase
// letter that is not the first character, then everything is lowercased.
// "MyComponent" becomes "my-component".
func Dasherize(segment string) string {
	var sb strings.Builder
	sb.Grow(len(segment) + 2)
	for i, r := range segment {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
