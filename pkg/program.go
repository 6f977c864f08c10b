package cqexpr

type thunk func() (Value, error)

// Program is an expression lowered once into Go closures. Running it gives
// the same results as Evaluate without walking the tree again, so it is the
// path to use when the same condition is checked many times.
type Program struct {
	expr Expr
	run  thunk
}

// Compile lowers expr. Arity errors and argument-less fallback calls are
// reported here rather than on Run.
func Compile(expr Expr, opts ...Option) (*Program, error) {
	o := newOptions(opts)

	run, err := lower(expr, o.identifierPolicy)
	if err != nil {
		return nil, err
	}

	return &Program{expr: expr, run: run}, nil
}

// CompileString parses text and compiles the result.
func CompileString(text string, opts ...Option) (*Program, error) {
	expr, err := Parse(text, opts...)
	if err != nil {
		return nil, err
	}

	return Compile(expr, opts...)
}

// MustCompile is like CompileString but panics on error. It simplifies
// initialisation of package-level programs.
func MustCompile(text string, opts ...Option) *Program {
	p, err := CompileString(text, opts...)
	if err != nil {
		panic("cqexpr: compile " + text + ": " + err.Error())
	}

	return p
}

func (p *Program) Run() (Value, error) {
	return p.run()
}

func (p *Program) Expr() Expr {
	return p.expr
}

func (p *Program) String() string {
	return p.expr.String()
}

func lower(expr Expr, policy IdentifierPolicy) (thunk, error) {
	if isNilExpr(expr) {
		return nil, evalErrorf(nil, ErrUnsupported, "nil node")
	}

	switch n := expr.(type) {
	case *NumberLiteral:
		v := NewNumber(n.Value)
		return func() (Value, error) { return v, nil }, nil
	case *Identifier:
		v, err := bareIdentifier(n, policy)
		if err != nil {
			return nil, err
		}
		return func() (Value, error) { return v, nil }, nil
	case *FuncCall:
		return lowerCall(n, policy)
	case *BinaryExpr:
		f, err := binaryBuiltin(n)
		if err != nil {
			return nil, err
		}
		return lowerBuiltin(n, f, []Expr{n.Op1, n.Op2}, policy)
	default:
		return nil, evalErrorf(nil, ErrUnsupported, "node %T", expr)
	}
}

func lowerCall(call *FuncCall, policy IdentifierPolicy) (thunk, error) {
	f, ok := builtinTable[call.Name]
	if !ok {
		if len(call.Args) == 0 {
			return nil, evalErrorf(call, ErrEmptyArgsFallback, "%s", call.Name)
		}

		return lower(call.Args[len(call.Args)-1], policy)
	}

	if len(call.Args) != f.arity {
		return nil, arityError(call, call.Name, f.arity, len(call.Args))
	}

	return lowerBuiltin(call, f, call.Args, policy)
}

func lowerBuiltin(node Expr, f builtinFunc, operands []Expr, policy IdentifierPolicy) (thunk, error) {
	args := make([]thunk, len(operands))
	for i, operand := range operands {
		arg, err := lower(operand, policy)
		if err != nil {
			return nil, err
		}

		args[i] = arg
	}

	return func() (Value, error) {
		vals := make([]Value, len(args))
		for i, arg := range args {
			v, err := arg()
			if err != nil {
				return Value{}, err
			}

			vals[i] = v
		}

		return callBuiltin(node, f, vals)
	}, nil
}
