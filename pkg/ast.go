package cqexpr

import (
	"strconv"
	"strings"
)

// Expr is a node of a parsed expression. The set of implementations is
// closed: *NumberLiteral, *Identifier, *FuncCall and *BinaryExpr.
type Expr interface {
	String() string
	exprNode()
}

type NumberLiteral struct {
	Value float64
}

// Identifier is a bare name that is not followed by an argument list.
type Identifier struct {
	Name string
}

type FuncCall struct {
	Name string
	Args []Expr
}

type BinaryOp string

const (
	BinaryLess           BinaryOp = "<"
	BinaryGreater        BinaryOp = ">"
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
)

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

func (*NumberLiteral) exprNode() {}
func (*Identifier) exprNode()    {}
func (*FuncCall) exprNode()      {}
func (*BinaryExpr) exprNode()    {}

// isNilExpr reports whether expr is nil or a nil pointer to one of the node
// types. Hand-built trees can contain either.
func isNilExpr(expr Expr) bool {
	switch n := expr.(type) {
	case nil:
		return true
	case *NumberLiteral:
		return n == nil
	case *Identifier:
		return n == nil
	case *FuncCall:
		return n == nil
	case *BinaryExpr:
		return n == nil
	}

	return false
}

func nodeString(expr Expr) string {
	if isNilExpr(expr) {
		return "<nil>"
	}

	return expr.String()
}

func (e *NumberLiteral) String() string {
	return strconv.FormatFloat(e.Value, 'g', -1, 64)
}

func (e *Identifier) String() string {
	return e.Name
}

func (e *FuncCall) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = nodeString(arg)
	}

	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *BinaryExpr) String() string {
	return "(" + nodeString(e.Op1) + " " + string(e.Operation) + " " + nodeString(e.Op2) + ")"
}
