package ast

import (
	"strings"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "command": true,
	"embed": true, "hr": true, "img": true, "input": true, "keygen": true,
	"link": true, "meta": true, "param": true, "source": true, "track": true,
	"wbr": true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Print renders n back to template source. Whitespace inside curly
// delimiters is normalised and element modifiers are printed after the
// attributes; everything else round-trips.
func Print(n Node) string {
	var p printer
	p.node(n)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Template:
		p.statements(n.Body)
	case *Block:
		p.statements(n.Body)
	case *TextNode:
		p.sb.WriteString(n.Chars)
	case *CommentStatement:
		p.sb.WriteString("<!--")
		p.sb.WriteString(n.Value)
		p.sb.WriteString("-->")
	case *MustacheCommentStatement:
		p.sb.WriteString("{{!")
		p.sb.WriteString(n.Value)
		p.sb.WriteString("}}")
	case *MustacheStatement:
		if n.Trusting {
			p.sb.WriteString("{{{")
		} else {
			p.sb.WriteString("{{")
		}
		p.call(n.Path, n.Params, n.Hash)
		if n.Trusting {
			p.sb.WriteString("}}}")
		} else {
			p.sb.WriteString("}}")
		}
	case *BlockStatement:
		p.sb.WriteString("{{#")
		p.call(n.Path, n.Params, n.Hash)
		if n.Program != nil {
			p.blockParams(n.Program.BlockParams)
		}
		p.sb.WriteString("}}")
		if n.Program != nil {
			p.node(n.Program)
		}
		if n.Inverse != nil {
			p.inverse(n.Inverse)
		}
		p.sb.WriteString("{{/")
		p.node(n.Path)
		p.sb.WriteString("}}")
	case *ElementNode:
		p.element(n)
	case *AttrNode:
		p.attr(n)
	case *ConcatStatement:
		p.sb.WriteByte('"')
		for _, part := range n.Parts {
			p.node(part)
		}
		p.sb.WriteByte('"')
	case *ElementModifierStatement:
		p.sb.WriteString("{{")
		p.call(n.Path, n.Params, n.Hash)
		p.sb.WriteString("}}")
	case *SubExpression:
		p.sb.WriteByte('(')
		p.call(n.Path, n.Params, n.Hash)
		p.sb.WriteByte(')')
	case *PathExpression:
		p.sb.WriteString(n.Original)
	case *StringLiteral:
		p.sb.WriteByte('"')
		p.sb.WriteString(strings.ReplaceAll(n.Value, `"`, `\"`))
		p.sb.WriteByte('"')
	case *NumberLiteral:
		p.sb.WriteString(n.Original)
	case *BooleanLiteral:
		if n.Value {
			p.sb.WriteString("true")
		} else {
			p.sb.WriteString("false")
		}
	case *NullLiteral:
		p.sb.WriteString("null")
	case *UndefinedLiteral:
		p.sb.WriteString("undefined")
	case *Hash:
		p.hash(n)
	case *HashPair:
		p.sb.WriteString(n.Key)
		p.sb.WriteByte('=')
		p.node(n.Value)
	}
}

func (p *printer) inverse(b *Block) {
	if nested, ok := chainedBlock(b); ok {
		p.sb.WriteString("{{else ")
		p.call(nested.Path, nested.Params, nested.Hash)
		if nested.Program != nil {
			p.blockParams(nested.Program.BlockParams)
		}
		p.sb.WriteString("}}")
		if nested.Program != nil {
			p.node(nested.Program)
		}
		if nested.Inverse != nil {
			p.inverse(nested.Inverse)
		}
		return
	}
	p.sb.WriteString("{{else")
	p.blockParams(b.BlockParams)
	p.sb.WriteString("}}")
	p.node(b)
}

func chainedBlock(b *Block) (*BlockStatement, bool) {
	if !b.Chained || len(b.Body) != 1 {
		return nil, false
	}
	nested, ok := b.Body[0].(*BlockStatement)
	return nested, ok
}

func (p *printer) statements(body []Statement) {
	for _, s := range body {
		p.node(s)
	}
}

func (p *printer) call(path Expression, params []Expression, hash *Hash) {
	p.node(path)
	for _, param := range params {
		p.sb.WriteByte(' ')
		p.node(param)
	}
	if hash.Len() > 0 {
		p.sb.WriteByte(' ')
		p.hash(hash)
	}
}

func (p *printer) hash(h *Hash) {
	for i, pair := range h.Pairs {
		if i > 0 {
			p.sb.WriteByte(' ')
		}
		p.node(pair)
	}
}

func (p *printer) blockParams(params []string) {
	if len(params) == 0 {
		return
	}
	p.sb.WriteString(" as |")
	p.sb.WriteString(strings.Join(params, " "))
	p.sb.WriteByte('|')
}

func (p *printer) element(n *ElementNode) {
	p.sb.WriteByte('<')
	p.sb.WriteString(n.Tag)
	for _, a := range n.Attributes {
		p.sb.WriteByte(' ')
		p.attr(a)
	}
	for _, m := range n.Modifiers {
		p.sb.WriteByte(' ')
		p.node(m)
	}
	for _, c := range n.Comments {
		p.sb.WriteByte(' ')
		p.node(c)
	}
	p.blockParams(n.BlockParams)
	if n.SelfClosing {
		p.sb.WriteString(" />")
		return
	}
	p.sb.WriteByte('>')
	if IsVoidElement(n.Tag) {
		return
	}
	p.statements(n.Children)
	p.sb.WriteString("</")
	p.sb.WriteString(n.Tag)
	p.sb.WriteByte('>')
}

func (p *printer) attr(a *AttrNode) {
	p.sb.WriteString(a.Name)
	switch v := a.Value.(type) {
	case nil:
		return
	case *TextNode:
		if v.Chars == "" {
			return
		}
		p.sb.WriteString(`="`)
		p.sb.WriteString(v.Chars)
		p.sb.WriteByte('"')
	default:
		p.sb.WriteByte('=')
		p.node(v)
	}
}
