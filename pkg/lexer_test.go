package cqexpr

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.cqexpr.dev/internal/test"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   error
		expect []Token
	}{
		{
			"1+2",
			nil,
			[]Token{
				{TokenNumber, "1", 0},
				{TokenOperator, "+", 1},
				{TokenNumber, "2", 2},
			},
		},
		{
			"  sin ( 3.25 )*x1 ",
			nil,
			[]Token{
				{TokenIdentifier, "sin", 2},
				{TokenSymbol, "(", 6},
				{TokenNumber, "3.25", 8},
				{TokenSymbol, ")", 13},
				{TokenOperator, "*", 14},
				{TokenIdentifier, "x1", 15},
			},
		},
		{
			"f(a,b)",
			nil,
			[]Token{
				{TokenIdentifier, "f", 0},
				{TokenSymbol, "(", 1},
				{TokenIdentifier, "a", 2},
				{TokenSymbol, ",", 3},
				{TokenIdentifier, "b", 4},
				{TokenSymbol, ")", 5},
			},
		},
		{
			"((1))",
			nil,
			[]Token{
				{TokenSymbol, "(", 0},
				{TokenSymbol, "(", 1},
				{TokenNumber, "1", 2},
				{TokenSymbol, ")", 3},
				{TokenSymbol, ")", 4},
			},
		},
		{
			// A number cannot grow into an identifier, so it ends there.
			"12ab3",
			nil,
			[]Token{
				{TokenNumber, "12", 0},
				{TokenIdentifier, "ab3", 2},
			},
		},
		{
			// Malformed numbers still lex; the parser rejects them.
			"1.2.3<-4",
			nil,
			[]Token{
				{TokenNumber, "1.2.3", 0},
				{TokenOperator, "<", 5},
				{TokenOperator, "-", 6},
				{TokenNumber, "4", 7},
			},
		},
		{
			"1 2",
			nil,
			[]Token{
				{TokenNumber, "1", 0},
				{TokenNumber, "2", 2},
			},
		},
		{"", ErrEmptyInput, nil},
		{" \t\n ", ErrEmptyInput, nil},
		{"@", ErrInvalidSymbol, nil},
		{"1 + a_b", ErrInvalidSymbol, nil},
		{"1@2", ErrInvalidSymbol, nil},
		{"1\x00+2", ErrInvalidSymbol, nil},
		{"1+2\x00*100", ErrInvalidSymbol, nil},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.data)
		if c.fail != nil {
			assert.ErrorIs(t, err, c.fail, c.data)

			var lexErr *LexError
			assert.True(t, errors.As(err, &lexErr), c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, toks, c.data)
	}
}

func TestLexerInvalidSymbolPosition(t *testing.T) {
	_, err := Tokenize("1 + a_b")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	// "a" is a complete identifier, so the invalid run starts at '_'.
	assert.Equal(t, 5, lexErr.Pos)
	assert.Equal(t, "_b", lexErr.Text)
}

func TestLexerNulByte(t *testing.T) {
	_, err := Tokenize("1\x00 + garbage @@@")

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 1, lexErr.Pos)
	assert.Equal(t, "\x00", lexErr.Text)

	_, err = Parse("1+2\x00*100")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestLexerChan(t *testing.T) {
	l := NewLexer(strings.NewReader("x > 1"))
	go l.Run()

	var types []TokenType
	for tok := range l.Chan() {
		types = append(types, tok.Typ)
	}

	assert.Equal(t, []TokenType{TokenIdentifier, TokenOperator, TokenNumber, TokenEOF}, types)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, TokenOperator, classify("-"))
	assert.Equal(t, TokenNumber, classify("."))
	assert.Equal(t, TokenNumber, classify("0.5"))
	assert.Equal(t, TokenIdentifier, classify("abc9"))
	assert.Equal(t, TokenSymbol, classify(","))
	assert.Equal(t, TokenError, classify(""))
	assert.Equal(t, TokenError, classify("9abc"))
	assert.Equal(t, TokenError, classify("<="))
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	r := rand.New(rand.NewSource(1))

	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomExpressionWithSep(r, size, " ")

		var err error
		b.StartTimer()

		benchResult, err = Tokenize(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer10(b *testing.B) {
	benchmarkLexer(10, b)
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}
