package tokens

import (
	"github.com/glimtools/glimtok/pkg/ast"
)

/*
Walker traversal:
----------------

The walk is pre-order and document-ordered: a node's own token, if any, is
emitted before any of its descendants'. Instead of native recursion the
walker keeps an explicit LIFO work stack of (node, scope-snapshot) pairs, so
traversal depth is bounded by the heap rather than the call stack on
pathologically nested input.

Scope discipline falls out of the snapshots: a block body's children are
scheduled with the pushed scope, everything else with the scope current at
their parent, so no explicit pop (and no missed pop on any exit path) can
occur.
*/

type workItem struct {
	node  ast.Node
	scope *Scope
}

type walker struct {
	stack []workItem
	out   []Token
}

func walkTemplate(tpl *ast.Template) []Token {
	w := &walker{stack: make([]workItem, 0, 64)}
	w.pushList(tpl.Body, nil)
	w.run()
	return w.out
}

func (w *walker) run() {
	for len(w.stack) > 0 {
		it := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.visit(it.node, it.scope)
	}
}

func (w *walker) visit(node ast.Node, scope *Scope) {
	switch n := node.(type) {
	case *ast.Element:
		if c := Classify(n.Path, ContextTagName, scope); c.Kind == Component {
			w.emit(Token{Name: c.Name, Kind: TokenComponent, Span: n.PathSpan})
		}
		// Scheduled in reverse so visiting order is: attribute values,
		// modifiers, children. Attributes and modifiers evaluate in the
		// caller's scope; only children see this element's block params.
		inner := scope.Push(n.BlockParams)
		w.pushList(n.Children, inner)
		for i := len(n.Modifiers) - 1; i >= 0; i-- {
			w.push(n.Modifiers[i], scope)
		}
		for i := len(n.Attributes) - 1; i >= 0; i-- {
			w.push(n.Attributes[i].Value, scope)
		}

	case *ast.ElementModifier:
		if c := Classify(n.Path, ContextCurlyPath, scope); c.Kind == Invocable {
			w.emit(Token{Name: c.Name, Kind: TokenInvocable, Span: n.PathSpan})
		}
		w.pushArgs(n.Params, n.Hash, scope)

	case *ast.Mustache:
		if c := Classify(n.Path, ContextCurlyPath, scope); c.Kind == Invocable {
			w.emit(Token{Name: c.Name, Kind: TokenInvocable, Span: n.PathSpan})
		}
		w.pushArgs(n.Params, n.Hash, scope)

	case *ast.SubExpr:
		if c := Classify(n.Path, ContextCurlyPath, scope); c.Kind == Invocable {
			w.emit(Token{Name: c.Name, Kind: TokenInvocable, Span: n.PathSpan})
		}
		w.pushArgs(n.Params, n.Hash, scope)

	case *ast.Block:
		// One node covers both block delimiters, so at most one token
		// regardless of block length.
		if c := Classify(n.Path, ContextCurlyPath, scope); c.Kind == Invocable {
			w.emit(Token{Name: c.Name, Kind: TokenInvocable, Span: n.PathSpan})
		}
		// The block's own params and hash evaluate in the caller's scope;
		// each body sees its own params pushed independently.
		if n.Inverse != nil {
			w.pushList(n.Inverse.Body, scope.Push(n.Inverse.BlockParams))
		}
		if n.Program != nil {
			w.pushList(n.Program.Body, scope.Push(n.Program.BlockParams))
		}
		w.pushArgs(n.Params, n.Hash, scope)

	case *ast.Text, *ast.Comment, *ast.MustacheComment,
		*ast.PathExpr, *ast.StringLit, *ast.NumberLit,
		*ast.BoolLit, *ast.NullLit, *ast.UndefinedLit:
		// Leaves: no token, nothing to schedule.

	default:
		// Unknown node kinds never abort the walk; if the kind exposes
		// children structurally, they are still visited.
		if c, ok := node.(ast.Container); ok {
			w.pushList(c.ChildNodes(), scope)
		}
	}
}

// pushArgs schedules an invocation's positional params and hash values, in
// that visiting order, under the given scope.
func (w *walker) pushArgs(params []ast.Node, hash []ast.HashPair, scope *Scope) {
	for i := len(hash) - 1; i >= 0; i-- {
		w.push(hash[i].Value, scope)
	}
	for i := len(params) - 1; i >= 0; i-- {
		w.push(params[i], scope)
	}
}

// pushList schedules nodes so they are visited in document order.
func (w *walker) pushList(nodes []ast.Node, scope *Scope) {
	for i := len(nodes) - 1; i >= 0; i-- {
		w.push(nodes[i], scope)
	}
}

func (w *walker) push(node ast.Node, scope *Scope) {
	if node == nil {
		return
	}
	w.stack = append(w.stack, workItem{node: node, scope: scope})
}

func (w *walker) emit(tok Token) {
	w.out = append(w.out, tok)
}
