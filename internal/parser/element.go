package parser

import (
	"strings"

	"github.com/specialistvlad/tmplresolve/internal/ast"
)

func (p *parser) element() (*ast.ElementNode, error) {
	start := p.pos
	p.pos++ // "<"
	tagStart := p.pos
	for !p.eof() && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' && !p.peek("/>") {
		p.pos++
	}
	el := &ast.ElementNode{Tag: p.src[tagStart:p.pos]}

	if err := p.elementParts(el); err != nil {
		return nil, err
	}
	if el.SelfClosing || ast.IsVoidElement(el.Tag) {
		el.Loc = p.loc(start, p.pos)
		return el, nil
	}

	children, term, err := p.content()
	if err != nil {
		return nil, err
	}
	if term != termCloseTag {
		return nil, p.errorf(start, "unclosed element <%s>", el.Tag)
	}
	el.Children = children

	closeStart := p.pos
	p.pos += len("</")
	nameStart := p.pos
	for !p.eof() && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' {
		p.pos++
	}
	if name := p.src[nameStart:p.pos]; name != el.Tag {
		return nil, p.errorf(closeStart, "closing tag </%s> did not match last open tag <%s>", name, el.Tag)
	}
	p.skipSpace()
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	el.Loc = p.loc(start, p.pos)
	return el, nil
}

// elementParts parses attributes, modifiers, comments and block parameters
// of an open tag, consuming its closing ">" or "/>".
func (p *parser) elementParts(el *ast.ElementNode) error {
	for {
		p.skipSpace()
		switch {
		case p.eof():
			return p.errorf(p.pos, "unclosed tag <%s>", el.Tag)
		case p.peek("/>"):
			p.pos += 2
			el.SelfClosing = true
			return nil
		case p.peek(">"):
			p.pos++
			return nil
		case p.peek("{{"):
			start := p.pos
			rest := strings.TrimPrefix(p.src[p.pos+2:], "~")
			if strings.HasPrefix(rest, "!") {
				c, err := p.mustacheComment(start)
				if err != nil {
					return err
				}
				el.Comments = append(el.Comments, c)
				continue
			}
			p.openCurly()
			path, params, hash, err := p.call("}}")
			if err != nil {
				return err
			}
			if err := p.closeCurly(); err != nil {
				return err
			}
			el.Modifiers = append(el.Modifiers, &ast.ElementModifierStatement{
				Path:   path,
				Params: params,
				Hash:   hash,
				Loc:    p.loc(start, p.pos),
			})
		case p.peek("as |") || p.peek("as|"):
			params, err := p.blockParams()
			if err != nil {
				return err
			}
			el.BlockParams = params
		default:
			attr, err := p.attribute()
			if err != nil {
				return err
			}
			el.Attributes = append(el.Attributes, attr)
		}
	}
}

func (p *parser) attribute() (*ast.AttrNode, error) {
	start := p.pos
	for !p.eof() && !isSpace(p.src[p.pos]) && p.src[p.pos] != '=' && p.src[p.pos] != '>' && !p.peek("/>") {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, p.errorf(start, "expected attribute name")
	}
	attr := &ast.AttrNode{Name: name}
	if !p.peek("=") {
		attr.Value = &ast.TextNode{Loc: p.loc(p.pos, p.pos)}
		attr.Loc = p.loc(start, p.pos)
		return attr, nil
	}
	p.pos++ // "="

	var err error
	switch {
	case p.peek(`"`) || p.peek("'"):
		attr.Value, err = p.quotedValue()
	case p.peek("{{"):
		attr.Value, err = p.mustache(p.pos, false)
	default:
		valueStart := p.pos
		for !p.eof() && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' && !p.peek("/>") {
			p.pos++
		}
		attr.Value = &ast.TextNode{Chars: p.src[valueStart:p.pos], Loc: p.loc(valueStart, p.pos)}
	}
	if err != nil {
		return nil, err
	}
	attr.Loc = p.loc(start, p.pos)
	return attr, nil
}

// quotedValue parses a quoted attribute value. Plain text becomes a
// TextNode; anything containing a mustache becomes a ConcatStatement.
func (p *parser) quotedValue() (ast.AttrValue, error) {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++
	var parts []ast.AttrValue
	hasMustache := false
	textStart := p.pos
	flush := func() {
		if p.pos > textStart {
			parts = append(parts, &ast.TextNode{Chars: p.src[textStart:p.pos], Loc: p.loc(textStart, p.pos)})
		}
	}
	for {
		if p.eof() {
			return nil, p.errorf(start, "unterminated attribute value")
		}
		if p.src[p.pos] == quote {
			flush()
			p.pos++
			break
		}
		if p.peek("{{") {
			flush()
			m, err := p.mustache(p.pos, false)
			if err != nil {
				return nil, err
			}
			parts = append(parts, m)
			hasMustache = true
			textStart = p.pos
			continue
		}
		p.pos++
	}
	loc := p.loc(start, p.pos)
	if !hasMustache {
		text := &ast.TextNode{Loc: loc}
		if len(parts) == 1 {
			text.Chars = parts[0].(*ast.TextNode).Chars
		}
		return text, nil
	}
	return &ast.ConcatStatement{Parts: parts, Loc: loc}, nil
}
