package script

import "io"

// Compiler validates a script and returns it as ExecutableContent.
//
// Example usage:
//
//	comp, err := compiler.New(compiler.WithGlobals([]string{"request"}))
//	content, err := comp.Compile(reader)
//	if err != nil {
//	    // Handle validation error
//	}
type Compiler interface {
	// Compile reads the script, validates it and returns the executable
	// content. The reader is closed.
	Compile(scriptReader io.ReadCloser) (ExecutableContent, error)
}
