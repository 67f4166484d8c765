package platform

import (
	"context"

	"github.com/robbyt/go-jscore/platform/data"
)

// EvalOnly is the interface for the script evaluator.
type EvalOnly interface {
	// Eval evaluates the pre-compiled script with data from the context.
	// The script and its configuration were provided during evaluator creation.
	// Runtime data is retrieved using the ExecutableUnit's DataProvider.
	//
	// Compilation (a syntax check) happens once, when the evaluator is
	// created; every Eval runs the script in a fresh JavaScript context.
	// For dynamic data, use a ContextProvider with the constants.EvalData key.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}

// Evaluator combines EvalOnly with data.Setter, so callers can prepare the
// context and evaluate in separate steps.
type Evaluator interface {
	EvalOnly
	data.Setter
}

// EvaluatorResponse is the exported result of one evaluation.
type EvaluatorResponse interface {
	// Type returns the JavaScript type of the result.
	Type() data.Types

	// Inspect returns a readable representation of the result.
	Inspect() string

	// Interface returns the result converted to Go values: nil, bool,
	// float64, string, []any, map[string]any, time.Time or []byte.
	Interface() any

	// GetScriptExeID returns the ID of the executable unit that produced
	// the result.
	GetScriptExeID() string

	// GetExecTime returns how long the evaluation took.
	GetExecTime() string
}
