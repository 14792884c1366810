/*
Package tokens extracts the ordered list of invocation identifiers a
component template references: components, helpers, and element modifiers.

	       Input
	         |
	         v
	  +------------+
	  | Template   |
	  | Source     |
	  +------------+
	         |
	   Parse (pkg/parser)
	         |
	         v
	  +------------+
	  | Node Tree  |
	  +------------+
	         |
	 Walk + Classify
	         |
	         v
	  +------------+
	  | Ordered    |
	  | Tokens     |
	  +------------+

The walk distinguishes global invocable names from block-bound locals
(`as |name|`), caller arguments (`@name`), and ordinary markup, preserving
document order. One extraction is a pure function of the source text: it
holds no state across calls, performs no I/O, and concurrent extractions
are fully independent.

Downstream consumers (a definition registry, a usage index) map the emitted
names to files and locations; this package deliberately does neither, and
does not deduplicate across calls.
*/
package tokens

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/glimtools/glimtok/pkg/ast"
	"github.com/glimtools/glimtok/pkg/parser"
	"github.com/glimtools/glimtok/pkg/position"
)

// TokenKind distinguishes how a token was referenced.
type TokenKind int

const (
	// TokenComponent is an angle-bracket component reference, normalized
	// from its tag path.
	TokenComponent TokenKind = iota
	// TokenInvocable is a curly-syntax reference: a component, helper, or
	// modifier invoked by its canonical dashed/slashed name.
	TokenInvocable
)

func (k TokenKind) String() string {
	switch k {
	case TokenComponent:
		return "component"
	case TokenInvocable:
		return "invocable"
	default:
		return "unknown"
	}
}

// Token is one recognized invocation: the normalized identifier plus the
// source span of the path that produced it. The same name may appear more
// than once when distinct nodes reference it.
type Token struct {
	Name string
	Kind TokenKind
	Span position.Span
}

// Extract parses source and returns its ordered token sequence.
//
// Extraction is all-or-nothing: if source does not parse, the returned error
// wraps a *parser.SyntaxError and no tokens are produced. Empty input is
// success with an empty sequence.
//
//	toks, err := tokens.Extract(ctx, "<MyComponent @name={{format-name user}} />")
//	// toks: my-component, format-name
func Extract(ctx context.Context, source string) ([]Token, error) {
	tpl, err := parser.Parse(source)
	if err != nil {
		return nil, errors.Errorf("parsing template: %w", err)
	}

	toks := ExtractTemplate(tpl)
	zerolog.Ctx(ctx).Debug().
		Int("tokens", len(toks)).
		Int("bytes", len(source)).
		Msg("extracted template tokens")
	return toks, nil
}

// ExtractTemplate walks an already-parsed template. The tree is consumed
// read-only; identical trees yield identical sequences.
func ExtractTemplate(tpl *ast.Template) []Token {
	if tpl == nil {
		return nil
	}
	return walkTemplate(tpl)
}

// Names projects the token sequence to its ordered names.
func Names(toks []Token) []string {
	names := make([]string, len(toks))
	for i, t := range toks {
		names[i] = t.Name
	}
	return names
}
