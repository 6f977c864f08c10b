package cqexpr

import (
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxDepth bounds parser recursion.
const DefaultMaxDepth = 256

// IdentifierPolicy decides what a bare identifier evaluates to.
type IdentifierPolicy int

const (
	// IdentifierLastChar yields the last character of the name as text.
	// Existing rule corpora were written against this behaviour.
	IdentifierLastChar IdentifierPolicy = iota
	// IdentifierFullName yields the whole name as text.
	IdentifierFullName
	// IdentifierReject fails with ErrBareIdentifier.
	IdentifierReject
)

var identifierPolicyNames = map[IdentifierPolicy]string{
	IdentifierLastChar: "last-char",
	IdentifierFullName: "full-name",
	IdentifierReject:   "reject",
}

func (p IdentifierPolicy) String() string {
	if name, ok := identifierPolicyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("IdentifierPolicy(%d)", int(p))
}

// ParseIdentifierPolicy is the inverse of IdentifierPolicy.String.
func ParseIdentifierPolicy(s string) (IdentifierPolicy, error) {
	for p, name := range identifierPolicyNames {
		if name == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown identifier policy %q", s)
}

type options struct {
	maxDepth         int
	identifierPolicy IdentifierPolicy
	logger           *slog.Logger
}

// Option configures a Parser, Evaluator or Compiler. Options that do not
// apply to the receiving component are ignored.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Values below 1 restore the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

func WithIdentifierPolicy(policy IdentifierPolicy) Option {
	return func(o *options) {
		o.identifierPolicy = policy
	}
}

// WithLogger sets the logger used by Compiler. A nil logger discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		maxDepth:         DefaultMaxDepth,
		identifierPolicy: IdentifierLastChar,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}
