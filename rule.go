package docref

import "time"

// RuleContext carries the inputs needed when evaluating a rule expression
// against a document.
type RuleContext struct {
	Document *Document
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Path     string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaultPath() RuleContext {
	if ctx.Path != "" {
		return ctx
	}
	meta := ctx.Document.Meta()
	if meta.Ref != nil {
		ctx.Path = meta.Ref.Path()
	} else if meta.ID != "" {
		ctx.Path = meta.ID
	}
	return ctx
}

func (ctx RuleContext) pathLabel() string {
	ctx = ctx.withDefaultPath()
	if ctx.Path != "" {
		return ctx.Path
	}
	return "unknown"
}

// docBinding exposes the hidden metadata record to rules under a single
// binding, keeping it apart from the spread document fields.
func (ctx RuleContext) docBinding() map[string]any {
	meta := ctx.Document.Meta()
	binding := map[string]any{}
	if meta.ID != "" {
		binding["id"] = meta.ID
	}
	path := ctx.Path
	if path == "" && meta.Ref != nil {
		path = meta.Ref.Path()
	}
	if path != "" {
		binding["path"] = path
	}
	if meta.Key != "" {
		binding["key"] = meta.Key
	}
	if meta.Priority != nil {
		binding["priority"] = meta.Priority
	}
	if len(binding) == 0 {
		return nil
	}
	return binding
}

// documentEnv renders the document's enumerable fields as the plain tree that
// rule engines see.
func (ctx RuleContext) documentEnv() map[string]any {
	env := ctx.Document.Map()
	if env == nil {
		return map[string]any{}
	}
	return env
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// RuleOption configures rule evaluation calls.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
}

func applyRuleOptions(opts []RuleOption) ruleConfig {
	cfg := ruleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (cfg *ruleConfig) evaluatorLogger() EvaluatorLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopEvaluatorLogger{}
}

// WithEvaluator configures the engine used for rule calls.
func WithEvaluator(e Evaluator) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.evaluator = e
	}
}
