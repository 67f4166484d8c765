// Package constants holds the keys shared by the data providers and the
// evaluator.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalData is the context key holding the map of runtime data for a script.
	EvalData ContextKey = "eval_data"

	// Ctx is the global variable scripts read their input data from.
	Ctx = "ctx"

	// Result is the global a script may assign when its last expression
	// value is not the result.
	Result = "result"
)
