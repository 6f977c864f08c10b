package cqexpr

import (
	"errors"
	"fmt"
)

// Tokenizer errors.
var (
	ErrEmptyInput    = errors.New("empty input")
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Parser errors.
var (
	ErrUnexpectedEOF        = errors.New("unexpected end of input")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrExpectedCloseParen   = errors.New("expected ')'")
	ErrExpectedArgSeparator = errors.New("expected ',' or ')'")
	ErrTrailingTokens       = errors.New("unexpected trailing tokens")
	ErrMalformedNumber      = errors.New("malformed number")
	ErrNestingTooDeep       = errors.New("expression nested too deeply")
)

// Evaluation errors.
var (
	ErrArity             = errors.New("wrong number of arguments")
	ErrEmptyArgsFallback = errors.New("call to unknown function without arguments")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrBareIdentifier    = errors.New("bare identifier")
	ErrNotNumeric        = errors.New("value is not numeric")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrDomain            = errors.New("argument outside function domain")
	ErrUnsupported       = errors.New("not supported by code generation")
)

type LexError struct {
	Pos  int
	Text string
	Err  error
}

func (e *LexError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("lex error at %d: %v", e.Pos, e.Err)
	}

	return fmt.Sprintf("lex error at %d: %v '%s'", e.Pos, e.Err, e.Text)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// ParseError reports the token the parser stopped at. Found is the zero
// Token with Typ TokenEOF when the input ran out.
type ParseError struct {
	Found Token
	Err   error
}

func (e *ParseError) Error() string {
	if e.Found.Typ == TokenEOF {
		return fmt.Sprintf("parse error: %v at end of input", e.Err)
	}

	return fmt.Sprintf("parse error at %d: %v, found %s", e.Found.Pos, e.Err, e.Found)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type EvalError struct {
	Node   Expr
	Detail string
	Err    error
}

func (e *EvalError) Error() string {
	msg := "eval error: " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Node != nil {
		msg += " in " + e.Node.String()
	}

	return msg
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func evalErrorf(node Expr, err error, format string, args ...interface{}) *EvalError {
	return &EvalError{
		Node:   node,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
