package splitter

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnsupportedAggregate is returned when an expression splitter
// encounters an aggregate kind with no known algebraic decomposition.
var ErrUnsupportedAggregate = goerrors.NewKind("unsupported aggregate: %v")

// ErrInvariantViolated is returned when a structural assumption about the
// input AST fails — a visible projection left without a reduce-side
// expression, a HAVING column pointing outside the projection list or
// lacking a reduce-side reconstruction. These indicate a
// bug in the caller or the parser that produced the AST, not a malformed
// query, and are not recoverable by retrying.
var ErrInvariantViolated = goerrors.NewKind("invariant violated: %s")
