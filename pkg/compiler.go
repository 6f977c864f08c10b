package cqexpr

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"
)

// Compiler runs whole pipelines with one set of options and logs each stage.
type Compiler struct {
	opts      []Option
	logger    *slog.Logger
	evaluator *Evaluator
}

func NewCompiler(opts ...Option) *Compiler {
	o := newOptions(opts)

	return &Compiler{
		opts:      opts,
		logger:    o.logger,
		evaluator: NewEvaluator(opts...),
	}
}

func (c *Compiler) Parse(text string) (Expr, error) {
	start := time.Now()

	expr, err := Parse(text, c.opts...)
	if err != nil {
		c.logger.Warn("parse failed", slog.String("expr", text), slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.Debug("parsed", slog.String("expr", text), slog.Duration("took", time.Since(start)))
	return expr, nil
}

// Eval tokenizes, parses and evaluates text.
func (c *Compiler) Eval(text string) (Value, error) {
	expr, err := c.Parse(text)
	if err != nil {
		return Value{}, err
	}

	start := time.Now()

	v, err := c.evaluator.Evaluate(expr)
	if err != nil {
		c.logger.Warn("evaluation failed", slog.String("expr", text), slog.String("error", err.Error()))
		return Value{}, err
	}

	c.logger.Debug("evaluated", slog.String("expr", text), slog.String("value", v.String()), slog.Duration("took", time.Since(start)))
	return v, nil
}

// Prepare parses text and lowers it into a reusable Program.
func (c *Compiler) Prepare(text string) (*Program, error) {
	expr, err := c.Parse(text)
	if err != nil {
		return nil, err
	}

	p, err := Compile(expr, c.opts...)
	if err != nil {
		c.logger.Warn("compile failed", slog.String("expr", text), slog.String("error", err.Error()))
		return nil, err
	}

	return p, nil
}

// EmitIR writes an LLVM module with one function per entry of sources,
// keyed by function name. Functions are emitted in name order.
func (c *Compiler) EmitIR(w io.Writer, module string, sources map[string]string) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	exprs := make([]NamedExpr, 0, len(names))
	for _, name := range names {
		expr, err := c.Parse(sources[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		exprs = append(exprs, NamedExpr{Name: name, Expr: expr})
	}

	mod, err := GenerateIR(module, exprs...)
	if err != nil {
		c.logger.Warn("code generation failed", slog.String("module", module), slog.String("error", err.Error()))
		return err
	}

	c.logger.Debug("generated module", slog.String("module", module), slog.Int("functions", len(exprs)))

	_, err = io.WriteString(w, mod.String())
	return err
}
