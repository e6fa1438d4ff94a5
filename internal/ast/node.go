package ast

import "strings"

// Pos is a single point in the template source.
type Pos struct {
	Line   int // 1-based
	Column int // 0-based, in bytes
	Offset int // byte offset from the start of the source
}

// Loc is the source span covered by a node.
type Loc struct {
	Start Pos
	End   Pos
}

// Node is implemented by every element of the template tree.
type Node interface {
	Location() Loc
}

// Statement is a node that can appear in the body of a template, a block or
// an element.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that can appear as a callee, a positional argument or
// a named argument value.
type Expression interface {
	Node
	expressionNode()
}

// AttrValue is the value side of an element attribute: a TextNode, a
// MustacheStatement or a ConcatStatement.
type AttrValue interface {
	Node
	attrValueNode()
}

// Template is the root of a parsed file.
type Template struct {
	Body        []Statement
	BlockParams []string
	// Source is the full text the template was parsed from.
	Source string
	Loc    Loc
}

// Block is the body of a block call, either its main program or its inverse.
// A Chained inverse holds a single BlockStatement written as {{else x ...}}.
type Block struct {
	Body        []Statement
	BlockParams []string
	Chained     bool
	Loc         Loc
}

// MustacheStatement is a top-level value-producing call, {{x ...}}. It also
// appears as the value of an element attribute.
type MustacheStatement struct {
	Path     Expression
	Params   []Expression
	Hash     *Hash
	Trusting bool
	Loc      Loc
}

// BlockStatement is a curly block call, {{#x ...}}...{{/x}}.
type BlockStatement struct {
	Path    Expression
	Params  []Expression
	Hash    *Hash
	Program *Block
	Inverse *Block
	Loc     Loc
}

// ElementModifierStatement is a call attached to a rendered element, <div {{x ...}}>.
type ElementModifierStatement struct {
	Path   Expression
	Params []Expression
	Hash   *Hash
	Loc    Loc
}

// ElementNode is an angle-bracket tag. Its Tag may itself be a global
// component reference.
type ElementNode struct {
	Tag         string
	SelfClosing bool
	Attributes  []*AttrNode
	Modifiers   []*ElementModifierStatement
	Comments    []*MustacheCommentStatement
	BlockParams []string
	Children    []Statement
	Loc         Loc
}

// AttrNode is a single attribute or @argument of an element.
type AttrNode struct {
	Name  string
	Value AttrValue
	Loc   Loc
}

// ConcatStatement is a quoted attribute value mixing text and mustaches.
type ConcatStatement struct {
	Parts []AttrValue
	Loc   Loc
}

// TextNode is literal markup text, or a plain quoted attribute value.
type TextNode struct {
	Chars string
	Loc   Loc
}

// CommentStatement is an HTML comment.
type CommentStatement struct {
	Value string
	Loc   Loc
}

// MustacheCommentStatement is a {{! ... }} or {{!-- ... --}} comment.
type MustacheCommentStatement struct {
	Value string
	Loc   Loc
}

// SubExpression is a nested value-producing call, (x ...).
type SubExpression struct {
	Path   Expression
	Params []Expression
	Hash   *Hash
	Loc    Loc
}

// PathExpression is a dotted reference. For this.foo.bar Parts is
// [foo bar] and This is set; for @foo.bar Parts is [foo bar] and Data is set.
type PathExpression struct {
	Original string
	Parts    []string
	This     bool
	Data     bool
	Loc      Loc
}

// StringLiteral is a quoted string used as an expression.
type StringLiteral struct {
	Value    string
	Original string
	Loc      Loc
}

// NumberLiteral is a numeric expression. Original keeps the source spelling.
type NumberLiteral struct {
	Value    float64
	Original string
	Loc      Loc
}

type BooleanLiteral struct {
	Value bool
	Loc   Loc
}

type NullLiteral struct {
	Loc Loc
}

type UndefinedLiteral struct {
	Loc Loc
}

// Hash holds the named arguments of a call.
type Hash struct {
	Pairs []*HashPair
	Loc   Loc
}

type HashPair struct {
	Key   string
	Value Expression
	Loc   Loc
}

// NewPath builds a plain, unscoped path expression for original, as used when
// substituting a bound identifier for a reference.
func NewPath(original string, loc Loc) *PathExpression {
	return &PathExpression{
		Original: original,
		Parts:    strings.Split(original, "."),
		Loc:      loc,
	}
}

// Head returns the root segment of the path, or "" for a bare this/@ path.
func (p *PathExpression) Head() string {
	if len(p.Parts) == 0 {
		return ""
	}
	return p.Parts[0]
}

// Pair returns the named argument called key, or nil.
func (h *Hash) Pair(key string) *HashPair {
	if h == nil {
		return nil
	}
	for _, p := range h.Pairs {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// Len reports the number of named arguments; a nil hash has none.
func (h *Hash) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Pairs)
}

// Attribute returns the attribute with the given name, or nil.
func (e *ElementNode) Attribute(name string) *AttrNode {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (n *Template) Location() Loc                 { return n.Loc }
func (n *Block) Location() Loc                    { return n.Loc }
func (n *MustacheStatement) Location() Loc        { return n.Loc }
func (n *BlockStatement) Location() Loc           { return n.Loc }
func (n *ElementModifierStatement) Location() Loc { return n.Loc }
func (n *ElementNode) Location() Loc              { return n.Loc }
func (n *AttrNode) Location() Loc                 { return n.Loc }
func (n *ConcatStatement) Location() Loc          { return n.Loc }
func (n *TextNode) Location() Loc                 { return n.Loc }
func (n *CommentStatement) Location() Loc         { return n.Loc }
func (n *MustacheCommentStatement) Location() Loc { return n.Loc }
func (n *SubExpression) Location() Loc            { return n.Loc }
func (n *PathExpression) Location() Loc           { return n.Loc }
func (n *StringLiteral) Location() Loc            { return n.Loc }
func (n *NumberLiteral) Location() Loc            { return n.Loc }
func (n *BooleanLiteral) Location() Loc           { return n.Loc }
func (n *NullLiteral) Location() Loc              { return n.Loc }
func (n *UndefinedLiteral) Location() Loc         { return n.Loc }
func (n *Hash) Location() Loc                     { return n.Loc }
func (n *HashPair) Location() Loc                 { return n.Loc }

func (*MustacheStatement) statementNode()        {}
func (*BlockStatement) statementNode()           {}
func (*ElementNode) statementNode()              {}
func (*TextNode) statementNode()                 {}
func (*CommentStatement) statementNode()         {}
func (*MustacheCommentStatement) statementNode() {}

func (*PathExpression) expressionNode()   {}
func (*SubExpression) expressionNode()    {}
func (*StringLiteral) expressionNode()    {}
func (*NumberLiteral) expressionNode()    {}
func (*BooleanLiteral) expressionNode()   {}
func (*NullLiteral) expressionNode()      {}
func (*UndefinedLiteral) expressionNode() {}

func (*TextNode) attrValueNode()          {}
func (*MustacheStatement) attrValueNode() {}
func (*ConcatStatement) attrValueNode()   {}
