package test

import (
	"math/rand"
	"strconv"
	"strings"
)

var operators = []string{"+", "-", "*", "/"}

// GetRandomExpression returns a well-formed arithmetic expression with the
// given number of top-level operands. Divisors are always non-zero literals
// so every generated expression evaluates without error.
func GetRandomExpression(r *rand.Rand, terms int) string {
	return GetRandomExpressionWithSep(r, terms, "")
}

func GetRandomExpressionWithSep(r *rand.Rand, terms int, sep string) string {
	var b strings.Builder
	writeChain(r, &b, terms, sep, 2)

	return b.String()
}

// GetRandomExpressions returns n expressions of the given size. It returns
// nil when n is not positive.
func GetRandomExpressions(r *rand.Rand, n, terms int) []string {
	if n < 1 {
		return nil
	}

	exprs := make([]string, n)
	for i := range exprs {
		exprs[i] = GetRandomExpression(r, terms)
	}

	return exprs
}

func writeChain(r *rand.Rand, b *strings.Builder, terms int, sep string, nesting int) {
	writeOperand(r, b, sep, nesting)

	for i := 1; i < terms; i++ {
		op := operators[r.Intn(len(operators))]
		b.WriteString(sep + op + sep)

		if op == "/" {
			b.WriteString(literal(r))
			continue
		}

		writeOperand(r, b, sep, nesting)
	}
}

func writeOperand(r *rand.Rand, b *strings.Builder, sep string, nesting int) {
	if nesting > 0 && r.Intn(4) == 0 {
		b.WriteString("(")
		writeChain(r, b, 1+r.Intn(3), sep, nesting-1)
		b.WriteString(")")
		return
	}

	b.WriteString(literal(r))
}

func literal(r *rand.Rand) string {
	if r.Intn(3) == 0 {
		return strconv.Itoa(1+r.Intn(9)) + "." + strconv.Itoa(r.Intn(10))
	}

	return strconv.Itoa(1 + r.Intn(99))
}
