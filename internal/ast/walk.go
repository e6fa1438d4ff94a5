package ast

// Visitor receives every node of a tree twice: once on the way down and once
// on the way up. Returning an error from either hook stops the walk and the
// error is returned from Walk.
type Visitor interface {
	Enter(n Node) error
	Exit(n Node) error
}

// Walk traverses the tree rooted at n depth first. Children are read after
// Enter returns, so a visitor may replace a node's callee or arguments in
// Enter and the walk continues over the replacement.
//
// Element attributes and modifiers are visited after the element is entered,
// which means an element's own block parameters are already in scope for
// them.
func Walk(v Visitor, n Node) error {
	if n == nil {
		return nil
	}
	if err := v.Enter(n); err != nil {
		return err
	}
	if err := walkChildren(v, n); err != nil {
		return err
	}
	return v.Exit(n)
}

func walkChildren(v Visitor, n Node) error {
	switch n := n.(type) {
	case *Template:
		return walkStatements(v, n.Body)
	case *Block:
		return walkStatements(v, n.Body)
	case *MustacheStatement:
		return walkCall(v, n.Path, n.Params, n.Hash)
	case *BlockStatement:
		if err := walkCall(v, n.Path, n.Params, n.Hash); err != nil {
			return err
		}
		if n.Program != nil {
			if err := Walk(v, n.Program); err != nil {
				return err
			}
		}
		if n.Inverse != nil {
			return Walk(v, n.Inverse)
		}
	case *ElementModifierStatement:
		return walkCall(v, n.Path, n.Params, n.Hash)
	case *SubExpression:
		return walkCall(v, n.Path, n.Params, n.Hash)
	case *ElementNode:
		for _, a := range n.Attributes {
			if err := Walk(v, a); err != nil {
				return err
			}
		}
		for _, m := range n.Modifiers {
			if err := Walk(v, m); err != nil {
				return err
			}
		}
		for _, c := range n.Comments {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
		return walkStatements(v, n.Children)
	case *AttrNode:
		return Walk(v, n.Value)
	case *ConcatStatement:
		for _, p := range n.Parts {
			if err := Walk(v, p); err != nil {
				return err
			}
		}
	case *Hash:
		for _, p := range n.Pairs {
			if err := Walk(v, p); err != nil {
				return err
			}
		}
	case *HashPair:
		return Walk(v, n.Value)
	}
	return nil
}

func walkStatements(v Visitor, body []Statement) error {
	for _, s := range body {
		if err := Walk(v, s); err != nil {
			return err
		}
	}
	return nil
}

func walkCall(v Visitor, path Expression, params []Expression, hash *Hash) error {
	if err := Walk(v, path); err != nil {
		return err
	}
	for _, p := range params {
		if err := Walk(v, p); err != nil {
			return err
		}
	}
	if hash != nil {
		return Walk(v, hash)
	}
	return nil
}

// Inspect calls f on entry to every node of the tree rooted at n.
func Inspect(n Node, f func(Node)) {
	_ = Walk(inspector(f), n)
}

type inspector func(Node)

func (f inspector) Enter(n Node) error {
	f(n)
	return nil
}

func (f inspector) Exit(Node) error { return nil }
