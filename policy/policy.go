// Package policy narrows the candidate pool with per-tool availability
// expressions written in CEL.
//
// An expression sees two variables: provider, the target provider id, and
// tool, a map with the tool's id, name, category and integration. It must
// evaluate to a bool:
//
//	p, err := policy.Compile(map[string]string{
//		"flight_status": `provider != "ollama"`,
//		"maps_nearby_search": `tool.integration == "maps" && provider in ["openai", "anthropic"]`,
//	})
//	pool = p.Filter(ctx, pool, "openai")
//
// Tools without an expression are always available.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/toolgate/catalog"
)

// ErrInvalidExpression indicates an availability expression failed to
// compile or does not produce a bool.
var ErrInvalidExpression = errors.New("invalid availability expression")

// Option configures a Policy.
type Option func(*Policy)

// WithLogger sets the logger used to report evaluation errors.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Policy holds compiled availability expressions keyed by tool id. It is
// immutable after Compile and safe for concurrent use.
type Policy struct {
	programs map[string]cel.Program
	logger   *slog.Logger
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("provider", cel.StringType),
		cel.Variable("tool", cel.MapType(cel.StringType, cel.StringType)),
	)
}

// Compile type-checks and compiles every expression. All failures are
// reported together. Empty expressions are skipped.
func Compile(exprs map[string]string, opts ...Option) (*Policy, error) {
	p := &Policy{
		programs: make(map[string]cel.Program, len(exprs)),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(exprs) == 0 {
		return p, nil
	}

	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	var errs []error
	for _, id := range slices.Sorted(maps.Keys(exprs)) {
		expr := exprs[id]
		if expr == "" {
			continue
		}

		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			errs = append(errs, fmt.Errorf("%w for %s: %w", ErrInvalidExpression, id, iss.Err()))
			continue
		}
		if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
			errs = append(errs, fmt.Errorf("%w for %s: result type is %s, want bool", ErrInvalidExpression, id, ast.OutputType()))
			continue
		}

		prg, err := env.Program(ast)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w for %s: %w", ErrInvalidExpression, id, err))
			continue
		}
		p.programs[id] = prg
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

// FromDescriptors compiles the AvailableWhen expressions of descriptors.
func FromDescriptors(descriptors []catalog.Descriptor, opts ...Option) (*Policy, error) {
	exprs := make(map[string]string)
	for _, d := range descriptors {
		if d.AvailableWhen != "" {
			exprs[d.ID] = d.AvailableWhen
		}
	}
	return Compile(exprs, opts...)
}

// Len returns the number of tools with an expression.
func (p *Policy) Len() int {
	return len(p.programs)
}

// Allowed evaluates the expression for d. Tools without one are allowed.
func (p *Policy) Allowed(d catalog.Descriptor, provider string) (bool, error) {
	prg, ok := p.programs[d.ID]
	if !ok {
		return true, nil
	}

	out, _, err := prg.Eval(map[string]any{
		"provider": provider,
		"tool": map[string]string{
			"id":          d.ID,
			"name":        d.Name(),
			"category":    string(d.Category),
			"integration": d.Integration,
		},
	})
	if err != nil {
		return false, fmt.Errorf("evaluate availability of %s: %w", d.ID, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate availability of %s: non-bool result %v", d.ID, out.Value())
	}
	return allowed, nil
}

// Filter returns the tools of pool available for provider, in pool order.
// A tool whose expression fails to evaluate is dropped and the error logged.
func (p *Policy) Filter(ctx context.Context, pool []catalog.Descriptor, provider string) []catalog.Descriptor {
	if p == nil || len(p.programs) == 0 {
		return pool
	}

	out := make([]catalog.Descriptor, 0, len(pool))
	for _, d := range pool {
		allowed, err := p.Allowed(d, provider)
		if err != nil {
			p.logger.WarnContext(ctx, "dropping tool with failing availability expression",
				"tool", d.ID,
				"provider", provider,
				"error", err,
			)
			continue
		}
		if allowed {
			out = append(out, d)
		}
	}
	return out
}
