package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"

	apperrors "txnsense/pkg/errors"
)

// Evaluator compiles insights rules against a single variable, tx, holding the flat view
// of an assembled transaction.
type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("tx", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

func (e *Evaluator) ValidateRule(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return fmt.Errorf("rule expression must return bool, got %v", ast.OutputType())
	}

	return nil
}

type compiledRule struct {
	expression string
	program    cel.Program
}

// RuleSet is a compiled, immutable list of exclusion rules. It is safe for concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// CompileRules compiles every expression up front so bad rules fail at startup.
func (e *Evaluator) CompileRules(expressions []string) (*RuleSet, error) {
	set := &RuleSet{rules: make([]compiledRule, 0, len(expressions))}

	for i, expression := range expressions {
		if err := e.ValidateRule(expression); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		ast, _ := e.env.Compile(expression)
		program, err := e.env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %d: failed to create CEL program: %w", i, err)
		}
		set.rules = append(set.rules, compiledRule{expression: expression, program: program})
	}

	return set, nil
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// FirstMatch returns the first rule that evaluates to true for tx. Rules that error or
// return a non-bool are reported through the error but do not stop later rules.
func (s *RuleSet) FirstMatch(ctx context.Context, tx map[string]interface{}) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}

	vars := map[string]interface{}{"tx": tx}

	var firstErr error
	for _, rule := range s.rules {
		var result ref.Val
		err := apperrors.Capture(func() error {
			var evalErr error
			result, _, evalErr = rule.program.ContextEval(ctx, vars)
			return evalErr
		})
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to evaluate %q: %w", rule.expression, err)
			}
			continue
		}

		matched, ok := result.Value().(bool)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("rule %q did not return bool, got %T", rule.expression, result.Value())
			}
			continue
		}
		if matched {
			return rule.expression, true, firstErr
		}
	}

	return "", false, firstErr
}
