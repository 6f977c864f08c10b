package cqexpr

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type builtinFunc struct {
	arity int
	call  func(args []float64) (Value, error)
	// libm names the C function generated code calls. Empty for operators,
	// which are lowered to instructions instead.
	libm string
}

// builtinTable is the fixed dispatch table of every callable name. It is
// never written after initialisation.
var builtinTable = map[string]builtinFunc{
	"+":    {arity: 2, call: arith(func(a, b float64) float64 { return a + b })},
	"-":    {arity: 2, call: arith(func(a, b float64) float64 { return a - b })},
	"*":    {arity: 2, call: arith(func(a, b float64) float64 { return a * b })},
	"/":    {arity: 2, call: divide},
	"<":    {arity: 2, call: compare(func(a, b float64) bool { return a < b })},
	">":    {arity: 2, call: compare(func(a, b float64) bool { return a > b })},
	"sin":  {arity: 1, call: periodic(math.Sin), libm: "sin"},
	"cos":  {arity: 1, call: periodic(math.Cos), libm: "cos"},
	"tan":  {arity: 1, call: periodic(math.Tan), libm: "tan"},
	"asin": {arity: 1, call: unitInterval(math.Asin), libm: "asin"},
	"acos": {arity: 1, call: unitInterval(math.Acos), libm: "acos"},
	"atan": {arity: 1, call: unary(math.Atan), libm: "atan"},
}

// IsBuiltin reports whether name is an operator or function with a fixed
// implementation. Calls to any other name fall back to their last argument.
func IsBuiltin(name string) bool {
	_, ok := builtinTable[name]
	return ok
}

func arith(f func(a, b float64) float64) func([]float64) (Value, error) {
	return func(args []float64) (Value, error) {
		return NewNumber(f(args[0], args[1])), nil
	}
}

func divide(args []float64) (Value, error) {
	if args[1] == 0 {
		return Value{}, ErrDivisionByZero
	}

	return NewNumber(args[0] / args[1]), nil
}

func compare(f func(a, b float64) bool) func([]float64) (Value, error) {
	return func(args []float64) (Value, error) {
		return NewBool(f(args[0], args[1])), nil
	}
}

func unary(f func(float64) float64) func([]float64) (Value, error) {
	return func(args []float64) (Value, error) {
		return NewNumber(f(args[0])), nil
	}
}

func periodic(f func(float64) float64) func([]float64) (Value, error) {
	return func(args []float64) (Value, error) {
		if math.IsInf(args[0], 0) {
			return Value{}, ErrDomain
		}

		return NewNumber(f(args[0])), nil
	}
}

func unitInterval(f func(float64) float64) func([]float64) (Value, error) {
	return func(args []float64) (Value, error) {
		if args[0] < -1 || args[0] > 1 {
			return Value{}, ErrDomain
		}

		return NewNumber(f(args[0])), nil
	}
}

// declareBuiltinFunc adds the declaration of a libm function to the module
// the first time it is referenced.
func declareBuiltinFunc(b *LLVMIRBuilder, name string) value.Value {
	if f, ok := b.values.Get(name); ok {
		return f
	}

	f := declareLibm(b.mod, builtinTable[name].libm)
	b.values.Set(name, f)
	return f
}

func declareLibm(mod *ir.Module, name string) *ir.Func {
	return mod.NewFunc(name, types.Double, ir.NewParam("x", types.Double))
}
