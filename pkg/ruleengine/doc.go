/*
Package ruleengine stores, evaluates and combines eligibility rules.

# Overview

Rules are short boolean expressions over named attributes:

	age > 30 AND department = 'Sales'

The repository is organised in layers:

  - expr: tokenizer, parser, expression tree, evaluator, combiner, printer
  - store: named rule persistence (memory, SQLite) and zstd snapshots
  - registry: cache of parsed trees keyed by rule fingerprint
  - service: the rule service (add, look up, evaluate, combine by text or name)
  - httpapi: JSON over HTTP for the service
  - config, observability: settings, slog logging, OpenTelemetry

The expr package is pure: it never touches storage or transport and can be
used on its own.

# Basic Usage

	st, err := store.NewSQLiteStore("rules.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer st.Close()

	engine := service.New(st, service.WithLogger(slog.Default()))

	added, err := engine.AddRule(ctx, "age > 30 AND department = 'Sales'")
	if err != nil {
	    log.Fatal(err)
	}

	ok, err := engine.Evaluate(ctx, service.EvaluateRequest{
	    RuleName: added.Rule.Name,
	    Data:     expr.Record{"age": 35, "department": "Sales"},
	})

# Errors

Service errors are classified with Categorize:

	switch ruleengine.Categorize(err) {
	case ruleengine.CategoryInvalid:   // bad rule text or request
	case ruleengine.CategoryNotFound:  // unknown rule name
	case ruleengine.CategoryInternal:  // storage failure
	}

Evaluation itself never fails: missing or incomparable attributes make a
comparison false.
*/
package ruleengine
