// Package parser turns glimmer-style component-template source text into the
// node tree defined by pkg/ast.
//
// The grammar is HTML-like elements (with `::`-separated component tag paths,
// element modifiers, and `as |name ...|` block params) plus curly-brace
// mustache, block, and sub-expression syntax:
//
//	<My::List @items={{sorted items}} as |item|>
//	  {{#if item.active}}
//	    <Badge {{tooltip item.hint}}>{{format-name item.name}}</Badge>
//	  {{else}}
//	    inactive
//	  {{/if}}
//	</My::List>
//
// Parsing is all-or-nothing: malformed input (unterminated tag, unterminated
// block, mismatched closing delimiter) yields a *SyntaxError and no tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/glimtools/glimtok/pkg/ast"
	"github.com/glimtools/glimtok/pkg/position"
)

// Parse parses source into a template tree. The returned error, if any, is a
// *SyntaxError carrying the byte offset and line/column of the problem.
func Parse(source string) (tpl *ast.Template, err error) {
	p := &parser{src: source}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tpl, err = nil, b.err
		}
	}()

	body := p.parseProgram(stopNothing)
	if !p.eof() {
		// parseProgram only stops early on a delimiter it was not asked to
		// stop at; at top level that is always a stray closer.
		p.fail(p.pos, "unexpected closing delimiter at top level")
	}

	return &ast.Template{
		Body:       body,
		SourceSpan: position.NewSpan(0, len(source)),
	}, nil
}

// bailout carries a syntax error out of the recursive descent.
type bailout struct {
	err *SyntaxError
}

type parser struct {
	src   string
	pos   int
	depth int
}

// maxNestingDepth bounds element, block, and sub-expression nesting so that
// pathological input fails with a *SyntaxError instead of exhausting the
// goroutine stack during the descent.
const maxNestingDepth = 500

func (p *parser) enter(offset int) {
	p.depth++
	if p.depth > maxNestingDepth {
		p.fail(offset, "nesting exceeds %d levels", maxNestingDepth)
	}
}

func (p *parser) leave() {
	p.depth--
}

// stopSet tells parseProgram which delimiters end the current body without
// being consumed.
type stopSet int

const (
	stopNothing    stopSet = 0
	stopCloseTag   stopSet = 1 << iota // "</"
	stopBlockClose                     // "{{/"
	stopElse                           // "{{else}}"
)

// voidElements are HTML elements that never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func (p *parser) parseProgram(stop stopSet) []ast.Node {
	var nodes []ast.Node

	for !p.eof() {
		if stop&stopCloseTag != 0 && p.hasPrefix("</") {
			break
		}

		switch kind := p.peekCurlyKind(); {
		case kind == curlyBlockClose:
			if stop&stopBlockClose != 0 {
				return nodes
			}
			p.fail(p.pos, "unexpected block closing delimiter")
		case kind == curlyElse:
			if stop&stopElse != 0 {
				return nodes
			}
			p.fail(p.pos, "unexpected {{else}} outside of a block")
		case kind == curlyComment:
			nodes = append(nodes, p.parseMustacheComment())
		case kind == curlyBlockOpen:
			nodes = append(nodes, p.parseBlock())
		case kind == curlyMustache:
			nodes = append(nodes, p.parseMustache())
		case p.hasPrefix("<!--"):
			nodes = append(nodes, p.parseComment())
		case p.hasPrefix("</"):
			p.fail(p.pos, "unexpected closing tag")
		case p.atElementStart():
			nodes = append(nodes, p.parseElement())
		default:
			nodes = append(nodes, p.parseText())
		}
	}

	return nodes
}

//
// ── curly constructs ─────────────────────────────────────────────
//

type curlyKind int

const (
	curlyNone curlyKind = iota
	curlyComment
	curlyBlockOpen
	curlyBlockClose
	curlyElse
	curlyMustache
)

// peekCurlyKind classifies the curly construct starting at the cursor, if
// any, without consuming input.
func (p *parser) peekCurlyKind() curlyKind {
	if !p.hasPrefix("{{") {
		return curlyNone
	}
	i := p.pos + 2
	if i < len(p.src) && p.src[i] == '{' {
		return curlyMustache // triple-stache
	}
	if i < len(p.src) && p.src[i] == '~' {
		i++
	}
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	if i >= len(p.src) {
		return curlyMustache
	}
	switch p.src[i] {
	case '!':
		return curlyComment
	case '#':
		return curlyBlockOpen
	case '/':
		return curlyBlockClose
	}
	if strings.HasPrefix(p.src[i:], "else") {
		j := i + len("else")
		if j >= len(p.src) || !isPathChar(p.src[j]) {
			return curlyElse
		}
	}
	return curlyMustache
}

// openCurly consumes "{{" plus an optional whitespace-control tilde and any
// following whitespace.
func (p *parser) openCurly() {
	p.expect("{{", "expected '{{'")
	if !p.eof() && p.src[p.pos] == '~' {
		p.pos++
	}
	p.skipSpace()
}

// closeCurly consumes an optional tilde and the closing delimiter.
func (p *parser) closeCurly(closer, what string) {
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == '~' {
		p.pos++
	}
	if !p.hasPrefix(closer) {
		p.fail(p.pos, "unterminated %s", what)
	}
	p.pos += len(closer)
}

func (p *parser) parseMustacheComment() ast.Node {
	start := p.pos
	p.openCurly()
	p.expect("!", "expected '!'")

	if p.hasPrefix("--") {
		p.pos += 2
		valStart := p.pos
		search := p.pos
		for {
			idx := strings.Index(p.src[search:], "--")
			if idx < 0 {
				p.fail(start, "unterminated comment")
			}
			end := search + idx
			j := end + 2
			if j < len(p.src) && p.src[j] == '~' {
				j++
			}
			if strings.HasPrefix(p.src[j:], "}}") {
				p.pos = j + 2
				return &ast.MustacheComment{
					Value:      p.src[valStart:end],
					SourceSpan: position.NewSpan(start, p.pos),
				}
			}
			search = end + 2
		}
	}

	valStart := p.pos
	idx := strings.Index(p.src[p.pos:], "}}")
	if idx < 0 {
		p.fail(start, "unterminated comment")
	}
	value := strings.TrimSuffix(p.src[valStart:valStart+idx], "~")
	p.pos = valStart + idx + 2
	return &ast.MustacheComment{
		Value:      value,
		SourceSpan: position.NewSpan(start, p.pos),
	}
}

func (p *parser) parseComment() ast.Node {
	start := p.pos
	p.pos += len("<!--")
	idx := strings.Index(p.src[p.pos:], "-->")
	if idx < 0 {
		p.fail(start, "unterminated comment")
	}
	value := p.src[p.pos : p.pos+idx]
	p.pos += idx + len("-->")
	return &ast.Comment{Value: value, SourceSpan: position.NewSpan(start, p.pos)}
}

func (p *parser) parseMustache() *ast.Mustache {
	start := p.pos
	p.expect("{{", "expected '{{'")
	triple := !p.eof() && p.src[p.pos] == '{'
	if triple {
		p.pos++
	}
	if !p.eof() && p.src[p.pos] == '~' {
		p.pos++
	}

	path, pathSpan, params, hash, _ := p.parseCallBody(false)

	closer := "}}"
	if triple {
		closer = "}}}"
	}
	p.closeCurly(closer, "mustache")

	return &ast.Mustache{
		Path:       path,
		PathSpan:   pathSpan,
		Params:     params,
		Hash:       hash,
		Unescaped:  triple,
		SourceSpan: position.NewSpan(start, p.pos),
	}
}

func (p *parser) parseBlock() *ast.Block {
	start := p.pos
	p.openCurly()
	p.expect("#", "expected '#'")

	b := &ast.Block{}
	var blockParams []string
	b.Path, b.PathSpan, b.Params, b.Hash, blockParams = p.parseCallBody(true)
	if b.Path == "" {
		p.fail(start, "expected block path")
	}
	p.closeCurly("}}", "block opening")

	b.Program, b.Inverse = p.parseBlockBodies(start, blockParams)

	// parseBlockBodies leaves the cursor at "{{/".
	p.openCurly()
	p.expect("/", "expected '/'")
	p.skipSpace()
	closeStart := p.pos
	closeName := p.scanPath()
	if closeName == "" {
		p.fail(closeStart, "expected path in block closing")
	}
	p.closeCurly("}}", "block closing")
	if closeName != b.Path {
		p.fail(closeStart, "mismatched block closing: expected {{/%s}}, got {{/%s}}", b.Path, closeName)
	}

	b.SourceSpan = position.NewSpan(start, p.pos)
	return b
}

// parseBlockBodies parses a block's program body and, if present, its
// {{else}} body. Chained inverses ({{else if ...}}) become a nested Block
// that shares the outermost closing delimiter.
func (p *parser) parseBlockBodies(openStart int, blockParams []string) (*ast.ProgramBlock, *ast.ProgramBlock) {
	p.enter(openStart)
	defer p.leave()

	bodyStart := p.pos
	body := p.parseProgram(stopBlockClose | stopElse)
	if p.eof() {
		p.fail(openStart, "unterminated block")
	}
	program := &ast.ProgramBlock{
		BlockParams: blockParams,
		Body:        body,
		SourceSpan:  position.NewSpan(bodyStart, p.pos),
	}

	if p.peekCurlyKind() != curlyElse {
		return program, nil
	}

	elseStart := p.pos
	p.openCurly()
	p.expect("else", "expected 'else'")
	p.skipSpace()

	var inverse *ast.ProgramBlock
	if p.hasPrefix("}}") || p.hasPrefix("~}}") {
		p.closeCurly("}}", "else")
		invBody := p.parseProgram(stopBlockClose)
		if p.eof() {
			p.fail(openStart, "unterminated block")
		}
		inverse = &ast.ProgramBlock{
			Body:       invBody,
			SourceSpan: position.NewSpan(elseStart, p.pos),
		}
	} else {
		nested := &ast.Block{}
		var nestedParams []string
		nested.Path, nested.PathSpan, nested.Params, nested.Hash, nestedParams = p.parseCallBody(true)
		if nested.Path == "" {
			p.fail(elseStart, "expected path after else")
		}
		p.closeCurly("}}", "block opening")
		nested.Program, nested.Inverse = p.parseBlockBodies(elseStart, nestedParams)
		nested.SourceSpan = position.NewSpan(elseStart, p.pos)
		inverse = &ast.ProgramBlock{
			Body:       []ast.Node{nested},
			SourceSpan: position.NewSpan(elseStart, p.pos),
		}
	}
	return program, inverse
}

// parseCallBody parses the interior of a curly invocation: a leading path
// (or literal), positional params, key=value hash pairs, and, when allowAs
// is set, a trailing `as |name ...|` declaration. It stops at the closing
// delimiter without consuming it.
func (p *parser) parseCallBody(allowAs bool) (path string, pathSpan position.Span, params []ast.Node, hash []ast.HashPair, blockParams []string) {
	p.skipSpace()

	if p.atCallEnd() {
		return
	}

	first := p.parseExpression()
	if pe, ok := first.(*ast.PathExpr); ok {
		path, pathSpan = pe.Raw, pe.SourceSpan
	} else {
		params = append(params, first)
	}

	for {
		p.skipSpace()
		if p.eof() || p.atCallEnd() {
			return
		}
		if allowAs && p.atBlockParams() {
			blockParams = p.parseBlockParams()
			p.skipSpace()
			return
		}
		if key, keyLen, ok := p.peekHashKey(); ok {
			keyStart := p.pos
			p.pos += keyLen + 1 // key and '='
			value := p.parseExpression()
			hash = append(hash, ast.HashPair{
				Key:        key,
				Value:      value,
				SourceSpan: position.NewSpan(keyStart, p.pos),
			})
			continue
		}
		params = append(params, p.parseExpression())
	}
}

// atCallEnd reports whether the cursor sits on a closing delimiter of the
// enclosing invocation ("}}", "}}}", ")", or a whitespace-control tilde
// directly before one).
func (p *parser) atCallEnd() bool {
	if p.eof() {
		return true
	}
	switch p.src[p.pos] {
	case '}', ')':
		return true
	case '~':
		return p.pos+1 < len(p.src) && p.src[p.pos+1] == '}'
	}
	return false
}

func (p *parser) parseExpression() ast.Node {
	p.skipSpace()
	if p.eof() {
		p.fail(p.pos, "expected expression")
	}
	start := p.pos

	switch c := p.src[p.pos]; {
	case c == '(':
		return p.parseSubExpr()
	case c == '"' || c == '\'':
		return p.parseStringLit()
	case isDigit(c), (c == '-' || c == '+') && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]):
		return p.parseNumberLit()
	}

	raw := p.scanPath()
	if raw == "" {
		p.fail(start, "unexpected character %q in expression", p.src[p.pos])
	}
	span := position.NewSpan(start, p.pos)

	switch raw {
	case "true", "false":
		return &ast.BoolLit{Value: raw == "true", SourceSpan: span}
	case "null":
		return &ast.NullLit{SourceSpan: span}
	case "undefined":
		return &ast.UndefinedLit{SourceSpan: span}
	}
	return &ast.PathExpr{Raw: raw, SourceSpan: span}
}

func (p *parser) parseSubExpr() *ast.SubExpr {
	start := p.pos
	p.enter(start)
	defer p.leave()
	p.expect("(", "expected '('")

	path, pathSpan, params, hash, _ := p.parseCallBody(false)
	if path == "" {
		p.fail(start, "expected path in sub-expression")
	}
	p.skipSpace()
	p.expect(")", "unterminated sub-expression")

	return &ast.SubExpr{
		Path:       path,
		PathSpan:   pathSpan,
		Params:     params,
		Hash:       hash,
		SourceSpan: position.NewSpan(start, p.pos),
	}
}

func (p *parser) parseStringLit() *ast.StringLit {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.eof() {
			p.fail(start, "unterminated string")
		}
		c := p.src[p.pos]
		if c == quote {
			p.pos++
			break
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			c = p.src[p.pos]
		}
		sb.WriteByte(c)
		p.pos++
	}
	return &ast.StringLit{Value: sb.String(), SourceSpan: position.NewSpan(start, p.pos)}
}

func (p *parser) parseNumberLit() *ast.NumberLit {
	start := p.pos
	if c := p.src[p.pos]; c == '-' || c == '+' {
		p.pos++
	}
	for !p.eof() {
		c := p.src[p.pos]
		if !isDigit(c) && c != '.' && c != 'e' && c != 'E' {
			break
		}
		p.pos++
	}
	return &ast.NumberLit{Text: p.src[start:p.pos], SourceSpan: position.NewSpan(start, p.pos)}
}

// peekHashKey reports whether the cursor sits on `key=` introducing a hash
// pair, returning the key and its length without consuming input.
func (p *parser) peekHashKey() (key string, keyLen int, ok bool) {
	i := p.pos
	if i >= len(p.src) || !(isAlpha(p.src[i]) || p.src[i] == '_') {
		return "", 0, false
	}
	for i < len(p.src) && (isAlpha(p.src[i]) || isDigit(p.src[i]) || p.src[i] == '_' || p.src[i] == '-') {
		i++
	}
	if i >= len(p.src) || p.src[i] != '=' {
		return "", 0, false
	}
	return p.src[p.pos:i], i - p.pos, true
}

// atBlockParams reports whether the cursor sits on an `as |...|` declaration.
func (p *parser) atBlockParams() bool {
	if !p.hasPrefix("as") {
		return false
	}
	i := p.pos + 2
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i > p.pos+2 && i < len(p.src) && p.src[i] == '|'
}

func (p *parser) parseBlockParams() []string {
	start := p.pos
	p.expect("as", "expected 'as'")
	p.skipSpace()
	p.expect("|", "expected '|'")

	var names []string
	for {
		p.skipSpace()
		if p.eof() {
			p.fail(start, "unterminated block params")
		}
		if p.src[p.pos] == '|' {
			p.pos++
			break
		}
		nameStart := p.pos
		for !p.eof() && isPathChar(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == nameStart {
			p.fail(p.pos, "unexpected character %q in block params", p.src[p.pos])
		}
		names = append(names, p.src[nameStart:p.pos])
	}
	if len(names) == 0 {
		p.fail(start, "empty block params")
	}
	return names
}

//
// ── elements ─────────────────────────────────────────────────────
//

func (p *parser) atElementStart() bool {
	if p.eof() || p.src[p.pos] != '<' || p.pos+1 >= len(p.src) {
		return false
	}
	c := p.src[p.pos+1]
	return isAlpha(c) || c == '@' || c == ':'
}

func (p *parser) parseElement() *ast.Element {
	start := p.pos
	p.enter(start)
	defer p.leave()
	p.expect("<", "expected '<'")

	pathStart := p.pos
	tag := p.scanTagName()
	if tag == "" {
		p.fail(pathStart, "expected tag name")
	}

	el := &ast.Element{
		Path:     tag,
		PathSpan: position.NewSpan(pathStart, p.pos),
	}

	for {
		p.skipSpace()
		if p.eof() {
			p.fail(start, "unterminated tag <%s>", tag)
		}
		c := p.src[p.pos]
		if c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>' {
			el.SelfClosing = true
			p.pos += 2
			break
		}
		if c == '>' {
			p.pos++
			break
		}
		if p.hasPrefix("{{") {
			if p.peekCurlyKind() == curlyComment {
				p.parseMustacheComment()
				continue
			}
			m := p.parseMustache()
			el.Modifiers = append(el.Modifiers, &ast.ElementModifier{
				Path:       m.Path,
				PathSpan:   m.PathSpan,
				Params:     m.Params,
				Hash:       m.Hash,
				SourceSpan: m.SourceSpan,
			})
			continue
		}
		if p.atBlockParams() {
			el.BlockParams = p.parseBlockParams()
			continue
		}
		el.Attributes = append(el.Attributes, p.parseAttribute())
	}

	if !el.SelfClosing && !voidElements[strings.ToLower(tag)] {
		el.Children = p.parseProgram(stopCloseTag)
		if p.eof() {
			p.fail(start, "unterminated tag <%s>", tag)
		}
		p.expect("</", "expected closing tag")
		p.skipSpace()
		closeStart := p.pos
		closeName := p.scanTagName()
		p.skipSpace()
		p.expect(">", "unterminated closing tag")
		if closeName != tag {
			p.fail(closeStart, "mismatched closing tag: expected </%s>, got </%s>", tag, closeName)
		}
	}

	el.SourceSpan = position.NewSpan(start, p.pos)
	return el
}

func (p *parser) parseAttribute() *ast.Attribute {
	start := p.pos
	name := p.scanAttrName()
	if name == "" {
		p.fail(p.pos, "unexpected character %q in tag", p.src[p.pos])
	}

	attr := &ast.Attribute{Name: name}
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == '=' {
		p.pos++
		attr.Value = p.parseAttrValue()
	}
	attr.SourceSpan = position.NewSpan(start, p.pos)
	return attr
}

func (p *parser) parseAttrValue() ast.Node {
	p.skipSpace()
	if p.eof() {
		p.fail(p.pos, "expected attribute value")
	}
	start := p.pos

	if c := p.src[p.pos]; c == '"' || c == '\'' {
		quote := c
		p.pos++
		var parts []ast.Node
		for {
			if p.eof() {
				p.fail(start, "unterminated attribute value")
			}
			if p.src[p.pos] == quote {
				p.pos++
				break
			}
			if p.hasPrefix("{{") {
				parts = append(parts, p.parseMustache())
				continue
			}
			textStart := p.pos
			for !p.eof() && p.src[p.pos] != quote && !p.hasPrefix("{{") {
				p.pos++
			}
			parts = append(parts, &ast.Text{
				Value:      p.src[textStart:p.pos],
				SourceSpan: position.NewSpan(textStart, p.pos),
			})
		}
		switch len(parts) {
		case 0:
			return &ast.Text{Value: "", SourceSpan: position.NewSpan(start, p.pos)}
		case 1:
			return parts[0]
		default:
			return &ast.ConcatValue{Parts: parts, SourceSpan: position.NewSpan(start, p.pos)}
		}
	}

	if p.hasPrefix("{{") {
		return p.parseMustache()
	}

	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) || c == '>' {
			break
		}
		if c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		p.fail(start, "expected attribute value")
	}
	return &ast.Text{Value: p.src[start:p.pos], SourceSpan: position.NewSpan(start, p.pos)}
}

//
// ── text ─────────────────────────────────────────────────────────
//

func (p *parser) parseText() *ast.Text {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == '{' && p.hasPrefix("{{") {
			break
		}
		if c == '<' && (p.hasPrefix("<!--") || p.hasPrefix("</") || p.atElementStart()) {
			break
		}
		p.pos++
	}
	return &ast.Text{
		Value:      p.src[start:p.pos],
		SourceSpan: position.NewSpan(start, p.pos),
	}
}

//
// ── scanning helpers ─────────────────────────────────────────────
//

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) expect(s, msg string) {
	if !p.hasPrefix(s) {
		p.fail(p.pos, "%s", msg)
	}
	p.pos += len(s)
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

// scanPath consumes a curly path: segments of letters, digits, and
// `_ - $`, joined by `.` or `/`, optionally led by `@`.
func (p *parser) scanPath() string {
	start := p.pos
	for !p.eof() && isPathChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// scanTagName consumes an angle-bracket tag path: `div`, `MyComponent`,
// `My::Nested.thing`, `@Arg`, `:namedBlock`.
func (p *parser) scanTagName() string {
	start := p.pos
	if p.eof() {
		return ""
	}
	if c := p.src[p.pos]; !isAlpha(c) && c != '@' && c != ':' {
		return ""
	}
	p.pos++
	for !p.eof() {
		c := p.src[p.pos]
		if !isAlpha(c) && !isDigit(c) && c != '-' && c != '_' && c != '.' && c != ':' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// scanAttrName consumes an attribute name, including `@arg` names and
// `...attributes`.
func (p *parser) scanAttrName() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) || c == '=' || c == '>' || c == '/' || c == '"' || c == '\'' || c == '{' || c == '}' || c == '<' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) fail(offset int, format string, args ...any) {
	panic(bailout{err: &SyntaxError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Pos:    position.PlaceOf(p.src, offset),
	}})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isPathChar(c byte) bool {
	return isAlpha(c) || isDigit(c) ||
		c == '_' || c == '-' || c == '$' || c == '.' || c == '/' || c == '@'
}
