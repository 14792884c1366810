// Package ast defines the node tree for glimmer-style component templates.
//
// The tree is a closed set of node kinds dispatched by type switch:
//
//	Template
//	   |
//	   +-> Text / Comment / MustacheComment     (leaves)
//	   |
//	   +-> Element
//	   |     +-> Attribute (value: Text, Mustache, ConcatValue)
//	   |     +-> ElementModifier
//	   |     +-> children: []Node
//	   |
//	   +-> Mustache / Block / SubExpr
//	         +-> params: []Node (PathExpr, SubExpr, literals)
//	         +-> hash:   []HashPair
//
// All nodes carry the byte span of their source text. Nodes are produced by
// pkg/parser and consumed read-only by pkg/tokens.
package ast

import (
	"github.com/glimtools/glimtok/pkg/position"
)

// Node is implemented by every kind in the tree.
type Node interface {
	node()
	Span() position.Span
}

// Container is implemented by nodes that structurally expose a flat list of
// children. Traversals use it as a fallback for kinds they do not otherwise
// recognize, so a syntax extension degrades to "no token, walk children"
// instead of halting the walk.
type Container interface {
	ChildNodes() []Node
}

// Template is the root of a parsed document.
type Template struct {
	Body []Node

	SourceSpan position.Span
}

func (t *Template) node()                {}
func (t *Template) Span() position.Span { return t.SourceSpan }
func (t *Template) ChildNodes() []Node  { return t.Body }

// Text is literal markup text outside of any tag or curly construct.
type Text struct {
	Value string

	SourceSpan position.Span
}

func (t *Text) node()                {}
func (t *Text) Span() position.Span { return t.SourceSpan }

// Comment is an HTML comment, <!-- ... -->.
type Comment struct {
	Value string

	SourceSpan position.Span
}

func (c *Comment) node()                {}
func (c *Comment) Span() position.Span { return c.SourceSpan }

// MustacheComment is a curly comment, {{!...}} or {{!--...--}}.
type MustacheComment struct {
	Value string

	SourceSpan position.Span
}

func (c *MustacheComment) node()                {}
func (c *MustacheComment) Span() position.Span { return c.SourceSpan }

// Element is an HTML-like element. The tag path may name an ordinary markup
// element (`div`), a component (`MyComponent`, `My::Nested`), or a local
// block-param binding (`Bar` after `as |Bar|`); pkg/tokens decides which.
type Element struct {
	// Path is the raw tag text, segments separated by "::".
	Path string
	// PathSpan covers just the tag path in the opening tag.
	PathSpan position.Span

	Attributes []*Attribute
	Modifiers  []*ElementModifier

	// BlockParams are names declared with `as |name ...|` in the opening
	// tag, bound inside Children only.
	BlockParams []string

	Children    []Node
	SelfClosing bool

	SourceSpan position.Span
}

func (e *Element) node()                {}
func (e *Element) Span() position.Span { return e.SourceSpan }

// Attribute is one `name` or `name=value` pair in an opening tag. Value is
// nil for a bare attribute, otherwise a *Text, *Mustache, or *ConcatValue.
// Names beginning with "@" are caller arguments rather than HTML attributes.
type Attribute struct {
	Name  string
	Value Node

	SourceSpan position.Span
}

// ElementModifier is a curly invocation attached to an opening tag,
// e.g. <input {{autocomplete}}>.
type ElementModifier struct {
	Path     string
	PathSpan position.Span

	Params []Node
	Hash   []HashPair

	SourceSpan position.Span
}

func (m *ElementModifier) node()                {}
func (m *ElementModifier) Span() position.Span { return m.SourceSpan }

// Mustache is a curly statement in content or attribute position,
// {{path params key=value}}. Unescaped marks triple-stache output.
type Mustache struct {
	Path     string
	PathSpan position.Span

	Params []Node
	Hash   []HashPair

	Unescaped bool

	SourceSpan position.Span
}

func (m *Mustache) node()                {}
func (m *Mustache) Span() position.Span { return m.SourceSpan }

// SubExpr is a parenthesized invocation nested inside another invocation's
// arguments, e.g. (format-name "boo").
type SubExpr struct {
	Path     string
	PathSpan position.Span

	Params []Node
	Hash   []HashPair

	SourceSpan position.Span
}

func (s *SubExpr) node()                {}
func (s *SubExpr) Span() position.Span { return s.SourceSpan }

// Block is a curly block statement, {{#path ...}} body {{else}} body
// {{/path}}. The opening and closing delimiters are one node.
type Block struct {
	Path     string
	PathSpan position.Span

	Params []Node
	Hash   []HashPair

	Program *ProgramBlock
	Inverse *ProgramBlock

	SourceSpan position.Span
}

func (b *Block) node()                {}
func (b *Block) Span() position.Span { return b.SourceSpan }

// ProgramBlock is one body of a Block together with the block params it
// declares. The params are in scope for Body and nothing else.
type ProgramBlock struct {
	BlockParams []string
	Body        []Node

	SourceSpan position.Span
}

// HashPair is one key=value argument of a curly invocation.
type HashPair struct {
	Key   string
	Value Node

	SourceSpan position.Span
}

// ConcatValue is a quoted attribute value interleaving text and mustaches,
// e.g. class="btn {{kind}}".
type ConcatValue struct {
	Parts []Node

	SourceSpan position.Span
}

func (c *ConcatValue) node()                {}
func (c *ConcatValue) Span() position.Span { return c.SourceSpan }
func (c *ConcatValue) ChildNodes() []Node  { return c.Parts }

// PathExpr is a bare path used as an argument value, e.g. `user.name`,
// `@title`, or `this.mode`. It is a reference, never an invocation.
type PathExpr struct {
	Raw string

	SourceSpan position.Span
}

func (p *PathExpr) node()                {}
func (p *PathExpr) Span() position.Span { return p.SourceSpan }

// StringLit is a quoted string argument.
type StringLit struct {
	Value string

	SourceSpan position.Span
}

func (s *StringLit) node()                {}
func (s *StringLit) Span() position.Span { return s.SourceSpan }

// NumberLit is a numeric argument, kept as written.
type NumberLit struct {
	Text string

	SourceSpan position.Span
}

func (n *NumberLit) node()                {}
func (n *NumberLit) Span() position.Span { return n.SourceSpan }

// BoolLit is a `true` or `false` argument.
type BoolLit struct {
	Value bool

	SourceSpan position.Span
}

func (b *BoolLit) node()                {}
func (b *BoolLit) Span() position.Span { return b.SourceSpan }

// NullLit is a `null` argument.
type NullLit struct {
	SourceSpan position.Span
}

func (n *NullLit) node()                {}
func (n *NullLit) Span() position.Span { return n.SourceSpan }

// UndefinedLit is an `undefined` argument.
type UndefinedLit struct {
	SourceSpan position.Span
}

func (u *UndefinedLit) node()                {}
func (u *UndefinedLit) Span() position.Span { return u.SourceSpan }
