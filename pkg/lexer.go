package cqexpr

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	// EOF is returned by peek and next once the reader is exhausted. It is
	// outside the valid rune range so a NUL byte in the input is not mistaken
	// for it.
	EOF rune = -1

	TokenError TokenType = iota
	TokenEOF
	TokenOperator
	TokenNumber
	TokenIdentifier
	TokenSymbol
)

var tokenTypeNames = map[TokenType]string{
	TokenError:      "Error",
	TokenEOF:        "EOF",
	TokenOperator:   "Operator",
	TokenNumber:     "Number",
	TokenIdentifier: "Identifier",
	TokenSymbol:     "Symbol",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}

	return "TokenType(?)"
}

var symbolTable = map[string]struct{}{
	"(": {},
	")": {},
	",": {},
}

type Token struct {
	Typ   TokenType
	Value string
	Pos   int
}

func (t Token) String() string {
	if t.Typ == TokenEOF {
		return "end of input"
	}

	return "'" + t.Value + "'"
}

func (t Token) isOperator() bool {
	return t.Typ == TokenOperator
}

func (t Token) isSymbol(s string) bool {
	return t.Typ == TokenSymbol && t.Value == s
}

// Lexer splits its input into tokens using maximal munch: a token keeps
// growing while the grown buffer still classifies as some token kind.
type Lexer struct {
	reader *bufio.Reader
	done   chan Token
	pos    int
	err    *LexError
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
	}
}

// Tokenize returns every token of text in input order.
func Tokenize(text string) ([]Token, error) {
	return NewLexer(strings.NewReader(text)).RunBlocking()
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking drains the lexer. Input that holds no tokens at all is an
// error.
func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		switch t.Typ {
		case TokenEOF:
			if len(tokens) == 0 {
				return nil, &LexError{Pos: t.Pos, Err: ErrEmptyInput}
			}

			return tokens, nil
		case TokenError:
			return nil, l.err
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emitValue(TokenEOF, "", l.pos)
		case unicode.IsSpace(r):
			l.next()
		default:
			return munchState
		}
	}
}

func munchState(l *Lexer) stateFunc {
	start := l.pos

	var buf strings.Builder
	for r := l.peek(); r != EOF && !unicode.IsSpace(r); r = l.peek() {
		cur := buf.String()
		if classify(cur) != TokenError && classify(cur+string(r)) == TokenError {
			break
		}

		buf.WriteRune(l.next())
	}

	text := buf.String()
	typ := classify(text)
	if typ == TokenError {
		return l.fail(&LexError{Pos: start, Text: text, Err: ErrInvalidSymbol})
	}

	return l.emitValue(typ, text, start)
}

// classify checks operator, number, identifier and symbol, in that order.
func classify(s string) TokenType {
	switch {
	case isOperator(s):
		return TokenOperator
	case isNumber(s):
		return TokenNumber
	case isIdentifier(s):
		return TokenIdentifier
	case isSymbol(s):
		return TokenSymbol
	}

	return TokenError
}

func isOperator(s string) bool {
	_, ok := precedenceTable[BinaryOp(s)]
	return ok
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != '.' {
			return false
		}
	}

	return true
}

func isIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}

	return true
}

func isSymbol(s string) bool {
	_, ok := symbolTable[s]
	return ok
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func (l *Lexer) fail(err *LexError) stateFunc {
	l.err = err
	l.done <- Token{
		Typ:   TokenError,
		Value: err.Error(),
		Pos:   err.Pos,
	}

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string, pos int) stateFunc {
	l.done <- Token{
		Typ:   t,
		Value: val,
		Pos:   pos,
	}

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	_ = l.reader.UnreadRune()
	return r
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	l.pos += size
	return r
}
