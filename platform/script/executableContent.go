package script

import (
	"github.com/robbyt/go-jscore/engines/types"
)

// ExecutableContent is script content that passed compilation and is ready
// to run.
type ExecutableContent interface {
	// GetSource returns the script source.
	GetSource() string

	// GetByteCode returns the engine-specific compiled form of the script.
	// The evaluator asserts it to the type its engine produces.
	GetByteCode() any

	// GetEngineType returns the engine the content was compiled for.
	GetEngineType() types.Type
}
