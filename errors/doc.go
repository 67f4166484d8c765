// Package errors classifies failures that cross the Go/JavaScriptCore boundary.
//
// Every error produced by the binding carries a Phase (where it happened) and
// a Kind (what went wrong), plus optional context such as the property path
// and the Go and JavaScript type names involved:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Path("user", "age").
//		GoType("int").
//		JSType("string").
//		Build()
//
// Kind-only sentinels match any phase, so callers can test the category
// without knowing where the error was raised:
//
//	if errors.Is(err, errors.ErrReleased) {
//		// the context or value was already released
//	}
package errors
