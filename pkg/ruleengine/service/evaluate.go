package service

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
	"go.opentelemetry.io/otel/attribute"
)

// EvaluateRequest identifies a rule and the record to test it against.
// RuleName takes precedence over Rule when both are set.
type EvaluateRequest struct {
	Rule     string
	RuleName string
	Data     expr.Record
}

// Evaluate reports whether the requested rule holds for req.Data.
//
// Returns ErrRuleRequired when neither Rule nor RuleName is set,
// ErrDataRequired when Data is nil, ErrRuleNotFound for an unknown name and
// the *expr.ParseError for rule text that does not parse. Attributes the
// record lacks are not an error; they make their comparisons false.
func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) (result bool, err error) {
	ctx, span := e.spans.StartSpan(ctx, "evaluate",
		attribute.String("rule.name", req.RuleName),
	)
	defer func() { e.spans.EndSpanWithError(span, err) }()

	if req.Rule == "" && req.RuleName == "" {
		return false, ruleengine.ErrRuleRequired
	}
	if req.Data == nil {
		return false, ruleengine.ErrDataRequired
	}

	source := "text"
	text := req.Rule
	if req.RuleName != "" {
		source = "name"
		rule, err := e.load(req.RuleName)
		if err != nil {
			observability.LogRuleError(e.logger, "evaluate", req.RuleName, err)
			return false, err
		}
		text = rule.Text
	}

	tree, err := e.parse(text)
	if err != nil {
		e.metrics.RecordParseError(ctx, "evaluate")
		observability.LogRuleError(e.logger, "evaluate", req.RuleName, err)
		return false, err
	}

	start := time.Now()
	result = expr.Evaluate(tree, req.Data)
	elapsed := time.Since(start)

	e.metrics.RecordEvaluation(ctx, source, result, elapsed)
	observability.LogEvaluation(e.logger, req.RuleName, result,
		float64(elapsed.Microseconds())/1000, missingAttributes(tree, req.Data))
	return result, nil
}

// CombineRequest lists the rules to join. Texts come first, then the named
// rules, each in the order given.
type CombineRequest struct {
	Rules     []string
	RuleNames []string
}

// Combine joins the requested rules with AND and returns the combined tree.
//
// Returns expr.ErrEmptyInput when no rules are requested, ErrRuleNotFound
// for an unknown name and, wrapped with the rule's index, the
// *expr.ParseError of the first rule that does not parse.
func (e *Engine) Combine(ctx context.Context, req CombineRequest) (tree expr.Node, err error) {
	ctx, span := e.spans.StartSpan(ctx, "combine",
		attribute.Int("rule.count", len(req.Rules)+len(req.RuleNames)),
	)
	defer func() { e.spans.EndSpanWithError(span, err) }()

	texts := make([]string, 0, len(req.Rules)+len(req.RuleNames))
	texts = append(texts, req.Rules...)
	for _, name := range req.RuleNames {
		rule, err := e.load(name)
		if err != nil {
			observability.LogRuleError(e.logger, "combine", name, err)
			return nil, err
		}
		texts = append(texts, rule.Text)
	}
	if len(texts) == 0 {
		return nil, expr.ErrEmptyInput
	}

	done := observability.TimedOperation()
	nodes := make([]expr.Node, 0, len(texts))
	for i, text := range texts {
		n, err := e.parse(text)
		if err != nil {
			e.metrics.RecordParseError(ctx, "combine")
			observability.LogRuleError(e.logger, "combine", "", err)
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}

	tree, err = expr.CombineNodes(nodes...)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordCombine(ctx, len(nodes))
	observability.LogCombine(e.logger, len(nodes), done())
	return tree, nil
}

// missingAttributes lists the attributes tree references that record lacks.
func missingAttributes(tree expr.Node, record expr.Record) []string {
	var missing []string
	for _, attr := range expr.Attributes(tree) {
		if _, ok := record[attr]; !ok {
			missing = append(missing, attr)
		}
	}
	return missing
}
