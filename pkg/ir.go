package cqexpr

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup maps global symbol names to the LLVM values that define them.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// NamedExpr is an expression to be generated as the function Name.
type NamedExpr struct {
	Name string
	Expr Expr
}

// LLVMIRBuilder generates one `double @name()` function per expression.
// Comparison results are widened to 0.0 or 1.0 wherever a double is
// expected. Division by zero follows IEEE rules in generated code.
type LLVMIRBuilder struct {
	mod    *ir.Module
	block  *ir.Block
	values *ValueLookup
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	return &LLVMIRBuilder{
		mod:    ir.NewModule(),
		values: NewValueLookup(),
	}
}

// GenerateIR builds a module holding a function for every expression.
func GenerateIR(source string, exprs ...NamedExpr) (*ir.Module, error) {
	b := NewLLVMIRBuilder()
	b.mod.SourceFilename = source

	for _, e := range exprs {
		if _, err := b.Function(e.Name, e.Expr); err != nil {
			return nil, err
		}
	}

	return b.Module(), nil
}

func (b *LLVMIRBuilder) Module() *ir.Module {
	return b.mod
}

func (b *LLVMIRBuilder) Function(name string, expr Expr) (*ir.Func, error) {
	if name == "" {
		return nil, fmt.Errorf("function name is empty")
	}

	if _, taken := b.values.Get(name); taken || IsBuiltin(name) {
		return nil, fmt.Errorf("function name %q is already in use", name)
	}

	// Added to the module only once its body is complete.
	f := ir.NewFunc(name, types.Double)

	prevBlock := b.block
	b.block = f.NewBlock("")
	defer func() {
		b.block = prevBlock
	}()

	v, err := b.recursiveLoad(expr)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}

	b.block.NewRet(b.toDouble(v))
	f.Parent = b.mod
	b.mod.Funcs = append(b.mod.Funcs, f)
	b.values.Set(name, f)

	return f, nil
}

func (b *LLVMIRBuilder) recursiveLoad(expr Expr) (value.Value, error) {
	if isNilExpr(expr) {
		return nil, evalErrorf(nil, ErrUnsupported, "nil node")
	}

	switch e := expr.(type) {
	case *NumberLiteral:
		return constant.NewFloat(types.Double, e.Value), nil
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *FuncCall:
		return b.functionCall(e)
	case *Identifier:
		return nil, evalErrorf(e, ErrUnsupported, "bare identifier %s", e.Name)
	default:
		return nil, evalErrorf(nil, ErrUnsupported, "node %T", expr)
	}
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, error) {
	if _, err := binaryBuiltin(expr); err != nil {
		return nil, err
	}

	v1, err := b.recursiveLoad(expr.Op1)
	if err != nil {
		return nil, err
	}

	v2, err := b.recursiveLoad(expr.Op2)
	if err != nil {
		return nil, err
	}

	return b.operation(expr.Operation, v1, v2), nil
}

func (b *LLVMIRBuilder) operation(op BinaryOp, v1, v2 value.Value) value.Value {
	x, y := b.toDouble(v1), b.toDouble(v2)

	switch op {
	case BinaryAddition:
		return b.block.NewFAdd(x, y)
	case BinarySubtraction:
		return b.block.NewFSub(x, y)
	case BinaryMultiplication:
		return b.block.NewFMul(x, y)
	case BinaryDivision:
		return b.block.NewFDiv(x, y)
	case BinaryLess:
		return b.block.NewFCmp(enum.FPredOLT, x, y)
	default:
		return b.block.NewFCmp(enum.FPredOGT, x, y)
	}
}

func (b *LLVMIRBuilder) functionCall(expr *FuncCall) (value.Value, error) {
	f, ok := builtinTable[expr.Name]
	if !ok {
		if len(expr.Args) == 0 {
			return nil, evalErrorf(expr, ErrEmptyArgsFallback, "%s", expr.Name)
		}

		return b.recursiveLoad(expr.Args[len(expr.Args)-1])
	}

	if len(expr.Args) != f.arity {
		return nil, arityError(expr, expr.Name, f.arity, len(expr.Args))
	}

	var callVals []value.Value
	for _, arg := range expr.Args {
		argVal, err := b.recursiveLoad(arg)
		if err != nil {
			return nil, err
		}

		callVals = append(callVals, argVal)
	}

	if f.libm == "" {
		return b.operation(BinaryOp(expr.Name), callVals[0], callVals[1]), nil
	}

	return b.block.NewCall(declareBuiltinFunc(b, expr.Name), b.toDouble(callVals[0])), nil
}

func (b *LLVMIRBuilder) toDouble(v value.Value) value.Value {
	if v.Type().Equal(types.I1) {
		return b.block.NewUIToFP(v, types.Double)
	}

	return v
}
