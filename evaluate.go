package docref

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("docref: evaluator not configured")

// EvaluateRule executes rule against doc using the configured engine and
// returns the raw expression result. The document's enumerable fields are
// spread into the expression environment alongside now, args, metadata, and
// the doc metadata binding.
func EvaluateRule(doc *Document, rule string, opts ...RuleOption) (any, error) {
	cfg := applyRuleOptions(opts)
	return evaluateWith(&cfg, RuleContext{Document: doc}, rule)
}

// EvaluateRuleWith executes rule using ctx. ctx.Document may be nil when the
// rule only reads now, args, or metadata.
func EvaluateRuleWith(ctx RuleContext, rule string, opts ...RuleOption) (any, error) {
	cfg := applyRuleOptions(opts)
	return evaluateWith(&cfg, ctx, rule)
}

// Match evaluates rule against doc and coerces the result to a verdict: nil,
// false, numeric zero, and the empty string fail, everything else passes.
func Match(doc *Document, rule string, opts ...RuleOption) (bool, error) {
	result, err := EvaluateRule(doc, rule, opts...)
	if err != nil {
		return false, err
	}
	return Truthy(result), nil
}

// Truthy reports how a rule result reads as a verdict.
func Truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int8:
		return typed != 0
	case int16:
		return typed != 0
	case int32:
		return typed != 0
	case int64:
		return typed != 0
	case uint:
		return typed != 0
	case uint8:
		return typed != 0
	case uint16:
		return typed != 0
	case uint32:
		return typed != 0
	case uint64:
		return typed != 0
	case float32:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return true
	}
}

func evaluateWith(cfg *ruleConfig, ctx RuleContext, rule string) (any, error) {
	if rule == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx = ctx.withDefaultNow().withDefaultMaps().withDefaultPath()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, rule)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, rule, ctx.pathLabel(), evalErr)
	cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     rule,
		Path:     ctx.pathLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (cfg *ruleConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*docref.exprEvaluator":
		return "expr"
	case "*docref.celEvaluator":
		return "cel"
	case "*docref.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
