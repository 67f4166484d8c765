package compiler

import (
	"slices"

	"github.com/robbyt/go-jscore/engines/types"
)

// Executable is a syntax-checked script. JavaScriptCore compiles source
// when it runs, so the source itself is the byte code.
type Executable struct {
	source    string
	sourceURL string
	globals   []string
}

func newExecutable(source, sourceURL string, globals []string) *Executable {
	if source == "" {
		return nil
	}
	return &Executable{
		source:    source,
		sourceURL: sourceURL,
		globals:   slices.Clone(globals),
	}
}

// GetSource returns the script source.
func (e *Executable) GetSource() string {
	return e.source
}

// GetByteCode returns the source string.
func (e *Executable) GetByteCode() any {
	return e.source
}

// GetEngineType returns types.JavaScriptCore.
func (e *Executable) GetEngineType() types.Type {
	return types.JavaScriptCore
}

// GetSourceURL returns the name the script runs under.
func (e *Executable) GetSourceURL() string {
	return e.sourceURL
}

// GetGlobals returns the declared globals.
func (e *Executable) GetGlobals() []string {
	return slices.Clone(e.globals)
}
