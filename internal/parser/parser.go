// Package parser turns template source into an ast.Template.
//
// It covers the part of the curly/angle-bracket template language the
// resolver cares about: text, comments, curly calls and blocks (with block
// parameters and {{else}} chains), sub-expressions, literals, elements with
// attributes, @arguments, modifiers and block parameters. It does not
// validate HTML nesting beyond matching open and close tags.
package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/tmplresolve/internal/ast"
)

// SyntaxError is returned for source that cannot be parsed.
type SyntaxError struct {
	Message string
	Loc     ast.Loc
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error on line %d:%d: %s", e.Loc.Start.Line, e.Loc.Start.Column, e.Message)
}

// Parse parses src into a template tree.
func Parse(src string) (*ast.Template, error) {
	p := newParser(src)
	body, term, err := p.content()
	if err != nil {
		return nil, err
	}
	if term != termEOF {
		return nil, p.errorf(p.pos, "unexpected %s", term)
	}
	return &ast.Template{
		Body:   body,
		Source: src,
		Loc:    p.loc(0, len(src)),
	}, nil
}

type terminator int

const (
	termEOF terminator = iota
	termElse
	termCloseBlock
	termCloseTag
)

func (t terminator) String() string {
	switch t {
	case termElse:
		return "{{else}}"
	case termCloseBlock:
		return "block close"
	case termCloseTag:
		return "closing tag"
	default:
		return "end of input"
	}
}

type parser struct {
	src        string
	pos        int
	lineStarts []int
}

func newParser(src string) *parser {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &parser{src: src, lineStarts: starts}
}

func (p *parser) position(off int) ast.Pos {
	line := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > off }) - 1
	return ast.Pos{Line: line + 1, Column: off - p.lineStarts[line], Offset: off}
}

func (p *parser) loc(start, end int) ast.Loc {
	return ast.Loc{Start: p.position(start), End: p.position(end)}
}

func (p *parser) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Loc: p.loc(off, off)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) expect(s string) error {
	if !p.peek(s) {
		return p.errorf(p.pos, "expected %q", s)
	}
	p.pos += len(s)
	return nil
}

// content parses statements until end of input or a construct that closes
// the enclosing block or element. The terminator is left unconsumed.
func (p *parser) content() ([]ast.Statement, terminator, error) {
	var body []ast.Statement
	for {
		if p.eof() {
			return body, termEOF, nil
		}
		switch {
		case p.peek("{{"):
			if t, ok := p.curlyTerminator(); ok {
				return body, t, nil
			}
			stmt, err := p.curly()
			if err != nil {
				return nil, 0, err
			}
			body = append(body, stmt)
		case p.peek("<!--"):
			stmt, err := p.htmlComment()
			if err != nil {
				return nil, 0, err
			}
			body = append(body, stmt)
		case p.peek("</"):
			return body, termCloseTag, nil
		case p.peek("<") && p.pos+1 < len(p.src) && isTagStart(p.src[p.pos+1]):
			el, err := p.element()
			if err != nil {
				return nil, 0, err
			}
			body = append(body, el)
		default:
			body = append(body, p.text())
		}
	}
}

func (p *parser) curlyTerminator() (terminator, bool) {
	rest := strings.TrimPrefix(p.src[p.pos+2:], "~")
	rest = strings.TrimLeft(rest, " \t\r\n")
	if strings.HasPrefix(rest, "/") {
		return termCloseBlock, true
	}
	if strings.HasPrefix(rest, "else") {
		after := strings.TrimPrefix(rest, "else")
		if after == "" || isSpace(after[0]) || after[0] == '}' || after[0] == '~' {
			return termElse, true
		}
	}
	return 0, false
}

func (p *parser) text() *ast.TextNode {
	start := p.pos
	p.pos++
	for !p.eof() {
		if p.peek("{{") || p.peek("</") || p.peek("<!--") {
			break
		}
		if p.src[p.pos] == '<' && p.pos+1 < len(p.src) && isTagStart(p.src[p.pos+1]) {
			break
		}
		p.pos++
	}
	return &ast.TextNode{Chars: p.src[start:p.pos], Loc: p.loc(start, p.pos)}
}

func (p *parser) htmlComment() (*ast.CommentStatement, error) {
	start := p.pos
	p.pos += len("<!--")
	end := strings.Index(p.src[p.pos:], "-->")
	if end < 0 {
		return nil, p.errorf(start, "unclosed HTML comment")
	}
	value := p.src[p.pos : p.pos+end]
	p.pos += end + len("-->")
	return &ast.CommentStatement{Value: value, Loc: p.loc(start, p.pos)}, nil
}

// openCurly consumes "{{" and an optional whitespace-control "~".
func (p *parser) openCurly() {
	p.pos += 2
	if p.peek("~") {
		p.pos++
	}
}

// closeCurly consumes an optional "~" and the closing "}}".
func (p *parser) closeCurly() error {
	p.skipSpace()
	if p.peek("~") {
		p.pos++
	}
	return p.expect("}}")
}

func (p *parser) atCurlyEnd() bool {
	return p.peek("}}") || p.peek("~}}")
}

func (p *parser) curly() (ast.Statement, error) {
	start := p.pos
	if p.peek("{{{") {
		return p.mustache(start, true)
	}
	rest := strings.TrimPrefix(p.src[p.pos+2:], "~")
	switch {
	case strings.HasPrefix(rest, "!"):
		return p.mustacheComment(start)
	case strings.HasPrefix(rest, "#"):
		return p.block(start)
	}
	return p.mustache(start, false)
}

func (p *parser) mustacheComment(start int) (*ast.MustacheCommentStatement, error) {
	p.openCurly()
	p.pos++ // "!"
	closer := "}}"
	if p.peek("--") {
		closer = "--}}"
	}
	end := strings.Index(p.src[p.pos:], closer)
	if end < 0 {
		return nil, p.errorf(start, "unclosed comment")
	}
	value := p.src[p.pos : p.pos+end+len(closer)-2]
	p.pos += end + len(closer)
	return &ast.MustacheCommentStatement{Value: value, Loc: p.loc(start, p.pos)}, nil
}

func (p *parser) mustache(start int, trusting bool) (*ast.MustacheStatement, error) {
	if trusting {
		p.pos += 3
	} else {
		p.openCurly()
	}
	path, params, hash, err := p.call("}}")
	if err != nil {
		return nil, err
	}
	if trusting {
		p.skipSpace()
		if err := p.expect("}}}"); err != nil {
			return nil, err
		}
	} else if err := p.closeCurly(); err != nil {
		return nil, err
	}
	return &ast.MustacheStatement{
		Path:     path,
		Params:   params,
		Hash:     hash,
		Trusting: trusting,
		Loc:      p.loc(start, p.pos),
	}, nil
}

func (p *parser) block(start int) (*ast.BlockStatement, error) {
	p.openCurly()
	p.pos++ // "#"
	stmt, err := p.blockRest(start)
	if err != nil {
		return nil, err
	}
	if err := p.closeBlock(stmt); err != nil {
		return nil, err
	}
	stmt.Loc = p.loc(start, p.pos)
	return stmt, nil
}

// blockRest parses a block's opening call, its program and its inverse, up
// to but not including the closing {{/x}}.
func (p *parser) blockRest(start int) (*ast.BlockStatement, error) {
	path, params, hash, err := p.call("}}")
	if err != nil {
		return nil, err
	}
	blockParams, err := p.blockParams()
	if err != nil {
		return nil, err
	}
	if err := p.closeCurly(); err != nil {
		return nil, err
	}
	stmt := &ast.BlockStatement{Path: path, Params: params, Hash: hash}

	progStart := p.pos
	body, term, err := p.content()
	if err != nil {
		return nil, err
	}
	stmt.Program = &ast.Block{Body: body, BlockParams: blockParams, Loc: p.loc(progStart, p.pos)}

	switch term {
	case termCloseBlock:
	case termElse:
		inverse, err := p.inverse()
		if err != nil {
			return nil, err
		}
		stmt.Inverse = inverse
	default:
		return nil, p.errorf(start, "unclosed block %s", ast.Print(path))
	}
	stmt.Loc = p.loc(start, p.pos)
	return stmt, nil
}

func (p *parser) inverse() (*ast.Block, error) {
	start := p.pos
	p.openCurly()
	p.skipSpace()
	p.pos += len("else")
	p.skipSpace()
	if !p.atCurlyEnd() && !p.peek("as |") {
		// {{else x ...}} chains a nested block sharing the outer close.
		nested, err := p.blockRest(start)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Body: []ast.Statement{nested}, Chained: true, Loc: p.loc(start, p.pos)}, nil
	}
	blockParams, err := p.blockParams()
	if err != nil {
		return nil, err
	}
	if err := p.closeCurly(); err != nil {
		return nil, err
	}
	bodyStart := p.pos
	body, term, err := p.content()
	if err != nil {
		return nil, err
	}
	if term != termCloseBlock {
		return nil, p.errorf(p.pos, "expected block close, found %s", term)
	}
	return &ast.Block{Body: body, BlockParams: blockParams, Loc: p.loc(bodyStart, p.pos)}, nil
}

func (p *parser) closeBlock(stmt *ast.BlockStatement) error {
	start := p.pos
	p.openCurly()
	p.skipSpace()
	if err := p.expect("/"); err != nil {
		return err
	}
	p.skipSpace()
	name := p.word()
	if want := ast.Print(stmt.Path); name != want {
		return p.errorf(start, "%s doesn't match %s", want, name)
	}
	return p.closeCurly()
}

// blockParams parses an optional "as |a b|" clause.
func (p *parser) blockParams() ([]string, error) {
	p.skipSpace()
	if !p.peek("as |") && !p.peek("as|") {
		return nil, nil
	}
	p.pos += len("as")
	p.skipSpace()
	start := p.pos
	p.pos++ // "|"
	end := strings.IndexByte(p.src[p.pos:], '|')
	if end < 0 {
		return nil, p.errorf(start, "unclosed block parameters")
	}
	names := strings.Fields(p.src[p.pos : p.pos+end])
	p.pos += end + 1
	if len(names) == 0 {
		return nil, p.errorf(start, "empty block parameters")
	}
	return names, nil
}

// call parses a callee followed by positional and named arguments. It stops
// before a closing delimiter ("}}", "~}}" or closer) or an "as |" clause.
func (p *parser) call(closer string) (ast.Expression, []ast.Expression, *ast.Hash, error) {
	p.skipSpace()
	path, err := p.expression()
	if err != nil {
		return nil, nil, nil, err
	}
	var params []ast.Expression
	var hash *ast.Hash
	for {
		p.skipSpace()
		if p.eof() {
			return nil, nil, nil, p.errorf(p.pos, "unexpected end of input")
		}
		if p.atCurlyEnd() || p.peek(closer) || p.peek("as |") || p.peek("as|") {
			break
		}
		if key, ok := p.hashKey(); ok {
			pairStart := p.pos
			p.pos += len(key) + 1
			value, err := p.expression()
			if err != nil {
				return nil, nil, nil, err
			}
			if hash == nil {
				hash = &ast.Hash{}
			}
			pair := &ast.HashPair{Key: key, Value: value, Loc: p.loc(pairStart, p.pos)}
			hash.Pairs = append(hash.Pairs, pair)
			hash.Loc = ast.Loc{Start: hash.Pairs[0].Loc.Start, End: pair.Loc.End}
			continue
		}
		if hash != nil {
			return nil, nil, nil, p.errorf(p.pos, "positional argument after named arguments")
		}
		param, err := p.expression()
		if err != nil {
			return nil, nil, nil, err
		}
		params = append(params, param)
	}
	return path, params, hash, nil
}

func (p *parser) hashKey() (string, bool) {
	end := p.pos
	for end < len(p.src) && isKeyChar(p.src[end]) {
		end++
	}
	if end == p.pos || end >= len(p.src) || p.src[end] != '=' {
		return "", false
	}
	return p.src[p.pos:end], true
}

func (p *parser) expression() (ast.Expression, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(p.pos, "expected expression")
	}
	start := p.pos
	c := p.src[p.pos]
	switch {
	case c == '(':
		p.pos++
		path, params, hash, err := p.call(")")
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.SubExpression{Path: path, Params: params, Hash: hash, Loc: p.loc(start, p.pos)}, nil
	case c == '"' || c == '\'':
		return p.stringLiteral()
	case isDigit(c) || (c == '-' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		word := p.word()
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return nil, p.errorf(start, "invalid number %q", word)
		}
		return &ast.NumberLiteral{Value: v, Original: word, Loc: p.loc(start, p.pos)}, nil
	}
	word := p.word()
	if word == "" {
		return nil, p.errorf(start, "unexpected %q", string(c))
	}
	loc := p.loc(start, p.pos)
	switch word {
	case "true", "false":
		return &ast.BooleanLiteral{Value: word == "true", Loc: loc}, nil
	case "null":
		return &ast.NullLiteral{Loc: loc}, nil
	case "undefined":
		return &ast.UndefinedLiteral{Loc: loc}, nil
	}
	return newPath(word, loc), nil
}

func newPath(original string, loc ast.Loc) *ast.PathExpression {
	path := &ast.PathExpression{Original: original, Loc: loc}
	rest := original
	switch {
	case rest == "this":
		path.This = true
		rest = ""
	case strings.HasPrefix(rest, "this."):
		path.This = true
		rest = strings.TrimPrefix(rest, "this.")
	case strings.HasPrefix(rest, "@"):
		path.Data = true
		rest = strings.TrimPrefix(rest, "@")
	}
	if rest != "" {
		path.Parts = strings.Split(rest, ".")
	}
	return path
}

func (p *parser) stringLiteral() (*ast.StringLiteral, error) {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf(start, "unterminated string")
		}
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == quote {
			sb.WriteByte(quote)
			p.pos += 2
			continue
		}
		p.pos++
		if c == quote {
			break
		}
		sb.WriteByte(c)
	}
	return &ast.StringLiteral{Value: sb.String(), Original: p.src[start:p.pos], Loc: p.loc(start, p.pos)}, nil
}

// word consumes a run of path characters.
func (p *parser) word() string {
	start := p.pos
	for !p.eof() && isPathChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isTagStart(c byte) bool { return isLetter(c) || c == '@' || c == ':' }

func isKeyChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_' || c == '@'
}

func isPathChar(c byte) bool {
	switch c {
	case '-', '_', '.', '/', '@', '$', ':', '?':
		return true
	}
	return isLetter(c) || isDigit(c)
}
