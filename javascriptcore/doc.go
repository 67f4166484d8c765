// Package javascriptcore wraps the JavaScriptCore C API in handles whose
// lifetime is managed from Go.
//
// A Context owns one global JavaScript context. Values produced by a context
// are protected from the JavaScript garbage collector for as long as Go
// holds them: call Release when done, or let the Go garbage collector do it.
// Releases triggered by the Go collector are queued on the owning context and
// applied on that context's next call, so no engine call is ever made from a
// finalizer goroutine.
//
// Closing a context releases the native context. Every later use of the
// context, or of a value it produced, fails with an error of kind
// errors.KindReleased.
//
//	c, err := javascriptcore.NewContext()
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	v, err := c.Evaluate(ctx, "[1, 2, 3].map(x => x * 2)")
//	if err != nil {
//		return err // *Exception for JavaScript errors
//	}
//	out, err := v.Export() // []any{2.0, 4.0, 6.0}
//
// Exceptions cross the boundary in both directions: a value thrown by
// JavaScript surfaces in Go as *Exception, and a *Exception returned from a
// Go callback is rethrown as the original JavaScript value.
package javascriptcore
