package cqexpr

import (
	"errors"
	"strconv"
)

// precedenceTable ranks the binary operators. Higher binds tighter and every
// operator is left-associative.
var precedenceTable = map[BinaryOp]int{
	BinaryLess:           10,
	BinaryGreater:        10,
	BinaryAddition:       20,
	BinarySubtraction:    20,
	BinaryMultiplication: 30,
	BinaryDivision:       30,
}

// Precedence returns the binding strength of op, or -1 if op is not a
// binary operator.
func Precedence(op BinaryOp) int {
	if prec, ok := precedenceTable[op]; ok {
		return prec
	}

	return -1
}

// Parser is a precedence-climbing parser over an already tokenized input.
// A Parser is single use.
type Parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

func NewParser(tokens []Token, opts ...Option) *Parser {
	o := newOptions(opts)

	return &Parser{
		tokens:   tokens,
		maxDepth: o.maxDepth,
	}
}

// ParseExpression parses one expression from the front of tokens and
// returns it together with the tokens it did not consume.
func ParseExpression(tokens []Token, opts ...Option) (Expr, []Token, error) {
	p := NewParser(tokens, opts...)

	expr, err := p.Expression()
	if err != nil {
		return nil, nil, err
	}

	return expr, p.Remaining(), nil
}

// Parse tokenizes and parses text as a single standalone expression.
func Parse(text string, opts ...Option) (Expr, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	expr, rest, err := ParseExpression(tokens, opts...)
	if err != nil {
		return nil, err
	}

	if len(rest) != 0 {
		return nil, &ParseError{Found: rest[0], Err: ErrTrailingTokens}
	}

	return expr, nil
}

func (p *Parser) Expression() (Expr, error) {
	return p.expr()
}

func (p *Parser) Remaining() []Token {
	if p.pos >= len(p.tokens) {
		return nil
	}

	return p.tokens[p.pos:]
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Typ: TokenEOF}
	}

	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.Typ != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *Parser) check(symbol string) bool {
	return p.peek().isSymbol(symbol)
}

func (p *Parser) errorf(tok Token, err error) error {
	return &ParseError{Found: tok, Err: err}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(p.peek(), ErrNestingTooDeep)
	}

	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) expr() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	if !p.peek().isOperator() {
		return lhs, nil
	}

	return p.binaryRHS(0, lhs)
}

func (p *Parser) binaryRHS(minPrec int, lhs Expr) (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	for {
		tok := p.peek()
		if !tok.isOperator() || Precedence(BinaryOp(tok.Value)) < minPrec {
			return lhs, nil
		}

		p.next()
		op := BinaryOp(tok.Value)

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}

		// A tighter operator after rhs takes rhs as its own left operand.
		if next := p.peek(); next.isOperator() && Precedence(BinaryOp(next.Value)) > Precedence(op) {
			rhs, err = p.binaryRHS(Precedence(op)+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{
			Operation: op,
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.peek(); {
	case tok.Typ == TokenEOF:
		return nil, p.errorf(tok, ErrUnexpectedEOF)
	case tok.isSymbol("("):
		return p.parenthesisedExpression()
	case tok.Typ == TokenNumber:
		return p.number()
	case tok.Typ == TokenIdentifier:
		return p.identifier()
	default:
		return nil, p.errorf(tok, ErrUnexpectedToken)
	}
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.next() // Skip the opening parenthesis

	exp, err := p.expr()
	if err != nil {
		return nil, err
	}

	if !p.check(")") {
		return nil, p.errorf(p.peek(), ErrExpectedCloseParen)
	}

	p.next()
	return exp, nil
}

func (p *Parser) number() (Expr, error) {
	tok := p.next()

	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, p.errorf(tok, ErrMalformedNumber)
	}

	return &NumberLiteral{Value: v}, nil
}

func (p *Parser) identifier() (Expr, error) {
	tok := p.next()
	if !p.check("(") {
		return &Identifier{Name: tok.Value}, nil
	}

	return p.funcCall(tok.Value)
}

func (p *Parser) funcCall(name string) (Expr, error) {
	p.next() // Skip the opening parenthesis

	var args []Expr
	for {
		if p.check(")") {
			p.next()
			break
		}

		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.peek()
		if tok.isSymbol(",") {
			p.next()
			continue
		}

		if tok.isSymbol(")") {
			p.next()
			break
		}

		return nil, p.errorf(tok, ErrExpectedArgSeparator)
	}

	return &FuncCall{
		Name: name,
		Args: args,
	}, nil
}
