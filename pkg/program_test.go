package cqexpr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.cqexpr.dev/internal/test"
)

func TestProgramMatchesEvaluate(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	exprs := append(test.GetRandomExpressions(r, 100, 6),
		"1+sin(2+(3)*4)+5",
		"(1<2)+(3>4)",
		"unknownfn(1,2,3)",
		"abc",
	)

	for _, text := range exprs {
		expr, err := Parse(text)
		require.NoError(t, err, text)

		want, err := Evaluate(expr)
		require.NoError(t, err, text)

		p, err := Compile(expr)
		require.NoError(t, err, text)

		got, err := p.Run()
		require.NoError(t, err, text)
		assert.Equal(t, want, got, text)
	}
}

func TestProgramRunTwice(t *testing.T) {
	p := MustCompile("2*cos(0)-1")

	v1, err := p.Run()
	require.NoError(t, err)
	v2, err := p.Run()
	require.NoError(t, err)

	assert.Equal(t, NewNumber(1), v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, "((2 * cos(0)) - 1)", p.String())
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		data string
		err  error
	}{
		{"sin(1,2)", ErrArity},
		{"1+g()", ErrEmptyArgsFallback},
		{"1+(2", ErrExpectedCloseParen},
		{"", ErrEmptyInput},
	}

	for _, c := range cases {
		_, err := CompileString(c.data)
		assert.ErrorIs(t, err, c.err, c.data)
	}

	_, err := CompileString("x", WithIdentifierPolicy(IdentifierReject))
	assert.ErrorIs(t, err, ErrBareIdentifier)
}

func TestCompileNilNodes(t *testing.T) {
	for _, expr := range []Expr{
		nil,
		&BinaryExpr{Operation: BinaryMultiplication, Op1: (*NumberLiteral)(nil), Op2: num(2)},
		call("cos", (*FuncCall)(nil)),
	} {
		_, err := Compile(expr)
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}

func TestProgramRuntimeErrors(t *testing.T) {
	p, err := CompileString("1/(3-3)")
	require.NoError(t, err)

	_, err = p.Run()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("1+") })
}

func BenchmarkProgram(b *testing.B) {
	p := MustCompile("1+(2+(3)*4)+5*sin(6)/7-8")

	for n := 0; n < b.N; n++ {
		if _, err := p.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
