// Package service implements the rule service: named rules backed by a
// store, evaluation and combination by rule text or rule name.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/observability"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/registry"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
)

// DefaultCacheSize is the number of parsed trees kept by default.
const DefaultCacheSize = 1024

// cachedTree pairs a parsed tree with the exact text it came from, so a
// fingerprint collision can never return another rule's tree.
type cachedTree struct {
	text string
	tree expr.Node
}

// Engine is the rule service. It is safe for concurrent use.
type Engine struct {
	store   store.Store
	trees   *registry.Registry[uint64, cachedTree]
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	// mu serializes name generation in AddRule.
	mu sync.Mutex
}

// New creates an Engine over st. The caller keeps ownership of st and closes
// it after the Engine is no longer used.
func New(st store.Store, opts ...Option) *Engine {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		store:   st,
		trees:   registry.New[uint64, cachedTree](cfg.cacheSize),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		spans:   cfg.spans,
	}
}

// AddedRule is the result of AddRule.
type AddedRule struct {
	Rule store.Rule
	Tree expr.Node
}

// AddRule parses text and stores it under a generated name Rule_<n>, where n
// is one more than the number of stored rules. Text that does not parse is
// rejected and nothing is stored.
func (e *Engine) AddRule(ctx context.Context, text string) (added AddedRule, err error) {
	ctx, span := e.spans.StartSpan(ctx, "add_rule")
	defer func() { e.spans.EndSpanWithError(span, err) }()

	tree, err := e.parse(text)
	if err != nil {
		e.metrics.RecordParseError(ctx, "add_rule")
		observability.LogRuleError(e.logger, "add_rule", "", err)
		return AddedRule{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	count, err := e.store.Count()
	if err != nil {
		return AddedRule{}, fmt.Errorf("count rules: %w", err)
	}

	for n := count + 1; ; n++ {
		rule := store.NewRule(fmt.Sprintf("Rule_%d", n), text)
		err := e.store.Save(rule)
		if errors.Is(err, store.ErrNameExists) {
			continue
		}
		if err != nil {
			return AddedRule{}, fmt.Errorf("save rule: %w", err)
		}
		e.metrics.RecordRuleStored(ctx)
		observability.LogRuleAdded(e.logger, rule.Name, rule.Fingerprint)
		return AddedRule{Rule: rule, Tree: tree}, nil
	}
}

// RuleNames returns the names of all stored rules in insertion order.
func (e *Engine) RuleNames(_ context.Context) ([]string, error) {
	rules, err := e.store.List()
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names, nil
}

// Rule returns the stored rule with the given name.
// Returns ErrRuleNotFound if there is none.
func (e *Engine) Rule(_ context.Context, name string) (store.Rule, error) {
	return e.load(name)
}

// RuleText returns the text of the stored rule with the given name.
func (e *Engine) RuleText(ctx context.Context, name string) (string, error) {
	rule, err := e.Rule(ctx, name)
	if err != nil {
		return "", err
	}
	return rule.Text, nil
}

// DeleteRule removes the stored rule with the given name.
func (e *Engine) DeleteRule(_ context.Context, name string) error {
	err := e.store.Delete(name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ruleengine.ErrRuleNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", name, err)
	}
	observability.LogRuleDeleted(e.logger, name)
	return nil
}

// Export writes every stored rule to w as a compressed snapshot.
func (e *Engine) Export(_ context.Context, w io.Writer) (int, error) {
	n, err := store.Export(e.store, w)
	if err != nil {
		return 0, fmt.Errorf("export rules: %w", err)
	}
	return n, nil
}

// Import stores the rules of a snapshot read from r, skipping names that are
// already taken. Each rule's text must parse; the first one that does not
// aborts the import before anything is stored.
func (e *Engine) Import(ctx context.Context, r io.Reader) (int, error) {
	snap, err := store.ReadSnapshot(r)
	if err != nil {
		return 0, fmt.Errorf("import rules: %w", err)
	}
	for _, rule := range snap.Rules {
		if _, err := e.parse(rule.Text); err != nil {
			e.metrics.RecordParseError(ctx, "import")
			return 0, fmt.Errorf("import rule %s: %w", rule.Name, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := store.ImportSnapshot(e.store, snap)
	if err != nil {
		return n, err
	}
	if e.logger != nil {
		e.logger.Info("rules imported",
			slog.Int("imported", n),
			slog.Int("skipped", len(snap.Rules)-n),
		)
	}
	return n, nil
}

// load fetches a stored rule, translating the store's not-found error.
func (e *Engine) load(name string) (store.Rule, error) {
	rule, err := e.store.Load(name)
	if errors.Is(err, store.ErrNotFound) {
		return store.Rule{}, fmt.Errorf("%w: %s", ruleengine.ErrRuleNotFound, name)
	}
	if err != nil {
		return store.Rule{}, fmt.Errorf("load rule %s: %w", name, err)
	}
	return rule, nil
}

// parse returns the tree for text, from the cache when possible.
func (e *Engine) parse(text string) (expr.Node, error) {
	entry, err := e.trees.GetOrCreate(store.Fingerprint(text), func() (cachedTree, error) {
		tree, err := expr.Parse(text)
		if err != nil {
			return cachedTree{}, err
		}
		return cachedTree{text: text, tree: tree}, nil
	})
	if err != nil {
		return nil, err
	}
	if entry.text != text {
		return expr.Parse(text)
	}
	return entry.tree, nil
}
