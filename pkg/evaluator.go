package cqexpr

import "fmt"

// Evaluator reduces a parsed expression to a Value by walking the tree.
// It holds no state between calls and is safe for concurrent use.
type Evaluator struct {
	policy IdentifierPolicy
}

func NewEvaluator(opts ...Option) *Evaluator {
	o := newOptions(opts)

	return &Evaluator{
		policy: o.identifierPolicy,
	}
}

// Evaluate is shorthand for NewEvaluator(opts...).Evaluate(expr).
func Evaluate(expr Expr, opts ...Option) (Value, error) {
	return NewEvaluator(opts...).Evaluate(expr)
}

func (e *Evaluator) Evaluate(expr Expr) (Value, error) {
	if isNilExpr(expr) {
		return Value{}, evalErrorf(nil, ErrUnsupported, "nil node")
	}

	switch n := expr.(type) {
	case *NumberLiteral:
		return NewNumber(n.Value), nil
	case *Identifier:
		return bareIdentifier(n, e.policy)
	case *FuncCall:
		return e.funcCall(n)
	case *BinaryExpr:
		return e.binaryExpression(n)
	default:
		return Value{}, evalErrorf(nil, ErrUnsupported, "node %T", expr)
	}
}

func (e *Evaluator) funcCall(call *FuncCall) (Value, error) {
	f, ok := builtinTable[call.Name]
	if !ok {
		// Unknown heads pass their last argument through; the others are
		// never evaluated.
		if len(call.Args) == 0 {
			return Value{}, evalErrorf(call, ErrEmptyArgsFallback, "%s", call.Name)
		}

		return e.Evaluate(call.Args[len(call.Args)-1])
	}

	if len(call.Args) != f.arity {
		return Value{}, arityError(call, call.Name, f.arity, len(call.Args))
	}

	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		v, err := e.Evaluate(arg)
		if err != nil {
			return Value{}, err
		}

		args[i] = v
	}

	return callBuiltin(call, f, args)
}

func (e *Evaluator) binaryExpression(expr *BinaryExpr) (Value, error) {
	f, err := binaryBuiltin(expr)
	if err != nil {
		return Value{}, err
	}

	v1, err := e.Evaluate(expr.Op1)
	if err != nil {
		return Value{}, err
	}

	v2, err := e.Evaluate(expr.Op2)
	if err != nil {
		return Value{}, err
	}

	return callBuiltin(expr, f, []Value{v1, v2})
}

func binaryBuiltin(expr *BinaryExpr) (builtinFunc, error) {
	if Precedence(expr.Operation) < 0 {
		return builtinFunc{}, evalErrorf(expr, ErrUnknownOperator, "%q", string(expr.Operation))
	}

	return builtinTable[string(expr.Operation)], nil
}

func bareIdentifier(id *Identifier, policy IdentifierPolicy) (Value, error) {
	switch policy {
	case IdentifierFullName:
		return NewText(id.Name), nil
	case IdentifierReject:
		return Value{}, evalErrorf(id, ErrBareIdentifier, "%s", id.Name)
	default:
		if id.Name == "" {
			return NewText(""), nil
		}

		return NewText(id.Name[len(id.Name)-1:]), nil
	}
}

func callBuiltin(node Expr, f builtinFunc, args []Value) (Value, error) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		n, ok := arg.AsFloat()
		if !ok {
			return Value{}, evalErrorf(node, ErrNotNumeric, "argument %d is %s", i+1, arg)
		}

		nums[i] = n
	}

	v, err := f.call(nums)
	if err != nil {
		return Value{}, &EvalError{Node: node, Err: err}
	}

	return v, nil
}

func arityError(node Expr, name string, want, got int) error {
	return evalErrorf(node, ErrArity, "%s takes %d %s, got %d", name, want, plural(want, "argument"), got)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return fmt.Sprintf("%ss", word)
}
