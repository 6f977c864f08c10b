package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"go.cqexpr.dev/internal/config"
	"go.cqexpr.dev/internal/test"
	"go.cqexpr.dev/pkg"
)

// flag names
const (
	configFlagName      = "config"
	logLevelFlagName    = "log-level"
	maxDepthFlagName    = "max-depth"
	identifiersFlagName = "identifiers"
	moduleFlagName      = "name"
	ticksFlagName       = "n"
	sizeFlagName        = "size"
	countFlagName       = "count"
	seedFlagName        = "seed"
)

type env struct {
	cfg      config.Config
	logger   *slog.Logger
	compiler *cqexpr.Compiler
}

func main() {
	app := newApp(&env{})

	if err := app.Run(os.Args); err != nil {
		printError(app.ErrWriter, err)
		os.Exit(1)
	}
}

func newApp(e *env) *cli.App {
	return &cli.App{
		Name:  "cqexpr",
		Usage: "tokenize, parse, evaluate and compile condition expressions",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: configFlagName, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: logLevelFlagName, Usage: "debug, info, warn or error"},
			&cli.IntFlag{Name: maxDepthFlagName, Usage: "maximum expression nesting depth"},
			&cli.StringFlag{Name: identifiersFlagName, Usage: "bare identifier policy: last-char, full-name or reject"},
		},
		Before: e.setup,
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "print the tokens of an expression",
				ArgsUsage: "<expr>",
				Action:    e.tokens,
			},
			{
				Name:      "parse",
				Usage:     "print the parenthesised syntax tree of an expression",
				ArgsUsage: "<expr>",
				Action:    e.parse,
			},
			{
				Name:      "eval",
				Usage:     "evaluate expressions",
				ArgsUsage: "<expr>...",
				Action:    e.eval,
			},
			{
				Name:      "compile",
				Usage:     "print an LLVM IR module with one function per expression",
				ArgsUsage: "<expr>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: moduleFlagName, Value: "ruleset", Usage: "module name and function prefix"},
				},
				Action: e.compile,
			},
			{
				Name:   "repl",
				Usage:  "evaluate expressions read line by line from stdin",
				Action: e.repl,
			},
			{
				Name:  "bench",
				Usage: "compare the interpreted and compiled evaluation paths",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: ticksFlagName, Value: 1000, Usage: "evaluations per expression"},
					&cli.IntFlag{Name: sizeFlagName, Value: 10, Usage: "operands per expression"},
					&cli.IntFlag{Name: countFlagName, Value: 10, Usage: "number of expressions"},
					&cli.Int64Flag{Name: seedFlagName, Value: 1, Usage: "random seed"},
				},
				Action: e.bench,
			},
		},
	}
}

func (e *env) setup(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.Path(configFlagName))
	if err != nil {
		return err
	}

	if ctx.IsSet(logLevelFlagName) {
		cfg.LogLevel = ctx.String(logLevelFlagName)
	}
	if ctx.IsSet(maxDepthFlagName) {
		cfg.MaxDepth = ctx.Int(maxDepthFlagName)
	}
	if ctx.IsSet(identifiersFlagName) {
		cfg.IdentifierPolicy = ctx.String(identifiersFlagName)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	e.cfg = cfg
	e.logger = slog.New(slog.NewTextHandler(ctx.App.ErrWriter, &slog.HandlerOptions{Level: level}))
	e.compiler = cqexpr.NewCompiler(cfg.Options(e.logger)...)

	return nil
}

func oneArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one expression, got %d", ctx.Command.Name, ctx.NArg())
	}

	return ctx.Args().First(), nil
}

func (e *env) tokens(ctx *cli.Context) error {
	text, err := oneArg(ctx)
	if err != nil {
		return err
	}

	toks, err := cqexpr.Tokenize(text)
	if err != nil {
		return err
	}

	for _, t := range toks {
		fmt.Fprintf(ctx.App.Writer, "%-10s %s\n", t.Typ, t.Value)
	}

	return nil
}

func (e *env) parse(ctx *cli.Context) error {
	text, err := oneArg(ctx)
	if err != nil {
		return err
	}

	expr, err := e.compiler.Parse(text)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, expr)
	return nil
}

func (e *env) eval(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("eval: expected at least one expression")
	}

	for _, text := range ctx.Args().Slice() {
		v, err := e.compiler.Eval(text)
		if err != nil {
			return err
		}

		fmt.Fprintln(ctx.App.Writer, v)
	}

	return nil
}

func (e *env) compile(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("compile: expected at least one expression")
	}

	name := ctx.String(moduleFlagName)
	sources := make(map[string]string, ctx.NArg())
	for i, text := range ctx.Args().Slice() {
		sources[name+"_"+strconv.Itoa(i)] = text
	}

	return e.compiler.EmitIR(ctx.App.Writer, name, sources)
}

func (e *env) repl(ctx *cli.Context) error {
	scanner := bufio.NewScanner(ctx.App.Reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		v, err := e.compiler.Eval(line)
		if err != nil {
			printError(ctx.App.Writer, err)
			continue
		}

		fmt.Fprintln(ctx.App.Writer, v)
	}

	return scanner.Err()
}

func (e *env) bench(ctx *cli.Context) error {
	runID := uuid.New().String()
	ticks := ctx.Int(ticksFlagName)
	for _, name := range []string{ticksFlagName, sizeFlagName, countFlagName} {
		if ctx.Int(name) < 1 {
			return fmt.Errorf("bench: --%s must be positive, got %d", name, ctx.Int(name))
		}
	}

	r := rand.New(rand.NewSource(ctx.Int64(seedFlagName)))
	exprs := test.GetRandomExpressions(r, ctx.Int(countFlagName), ctx.Int(sizeFlagName))
	opts := e.cfg.Options(nil)

	e.logger.Info("bench starting",
		slog.String("run_id", runID),
		slog.Int("expressions", len(exprs)),
		slog.Int("ticks", ticks),
	)

	var interpreted, compiled time.Duration
	for _, text := range exprs {
		start := time.Now()
		for i := 0; i < ticks; i++ {
			expr, err := cqexpr.Parse(text, opts...)
			if err != nil {
				return err
			}
			if _, err := cqexpr.Evaluate(expr, opts...); err != nil {
				return err
			}
		}
		interpreted += time.Since(start)

		p, err := cqexpr.CompileString(text, opts...)
		if err != nil {
			return err
		}

		start = time.Now()
		for i := 0; i < ticks; i++ {
			if _, err := p.Run(); err != nil {
				return err
			}
		}
		compiled += time.Since(start)
	}

	perTick := func(d time.Duration) time.Duration {
		return d / time.Duration(ticks)
	}

	fmt.Fprintf(ctx.App.Writer, "run %s\n", runID)
	fmt.Fprintf(ctx.App.Writer, "%-12s %14s %14s\n", "path", "total", "per tick")
	fmt.Fprintf(ctx.App.Writer, "%-12s %14s %14s\n", "interpreted", interpreted, perTick(interpreted))
	fmt.Fprintf(ctx.App.Writer, "%-12s %14s %14s\n", "compiled", compiled, perTick(compiled))

	e.logger.Info("bench completed",
		slog.String("run_id", runID),
		slog.Duration("interpreted", interpreted),
		slog.Duration("compiled", compiled),
	)

	return nil
}

func printError(w io.Writer, err error) {
	var (
		lexErr   *cqexpr.LexError
		parseErr *cqexpr.ParseError
		evalErr  *cqexpr.EvalError
	)

	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintln(w, "Bad input:", lexErr)
	case errors.As(err, &parseErr):
		fmt.Fprintln(w, "Bad expression:", parseErr)
	case errors.As(err, &evalErr):
		fmt.Fprintln(w, "Evaluation failed:", evalErr)
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}
