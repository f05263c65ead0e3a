/*
Package expr parses and evaluates eligibility rules.

# Overview

A rule is a boolean expression over named attributes:

	age > 30 AND department = 'Sales'

Rules are tokenized, parsed into an immutable binary tree, and evaluated
against a Record. Several rules can be combined into one conjunctive tree.

# Rule Syntax

	<expr>       := <and-expr> ('OR' <and-expr>)*
	<and-expr>   := <primary> ('AND' <primary>)*
	<primary>    := '(' <expr> ')' | <comparison>
	<comparison> := <identifier> <comparator> <literal>
	<comparator> := '>' | '=' | '<' | '>=' | '<='
	<literal>    := digits | 'quoted text'

OR binds looser than AND and both associate to the left. Keywords are
case-sensitive and only count as whole words, so 'AND OR' inside quotes is an
ordinary string.

# Evaluation

	tree, err := expr.Parse("age > 30 AND department = 'Sales'")
	if err != nil {
	    return err
	}
	ok := expr.Evaluate(tree, expr.Record{"age": 35, "department": "Sales"}) // true

Ordering comparators need an integer record value and an integer literal.
'=' compares the record value's text (numbers in decimal) with the
literal's text. Anything missing or incomparable makes that comparison
false; Evaluate never returns an error.

# Combining

	tree, err := expr.Combine("age > 30", "department = 'Sales'")

is equivalent to parsing "age > 30 AND department = 'Sales'". Combining zero
rules returns ErrEmptyInput.

# Rendering

Render produces a canonical string, useful for tests and diagnostics:

	And(Comparison(age, >, 30), Comparison(department, =, "Sales"))

# Thread Safety

Trees expose no mutating methods. They can be evaluated concurrently from
any number of goroutines.
*/
package expr
