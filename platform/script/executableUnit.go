package script

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-jscore/engines/types"
	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/platform/data"
	"github.com/robbyt/go-jscore/platform/script/loader"
)

const checksumLength = 12

// ErrCompilerNil is returned by NewExecutableUnit without a compiler.
var ErrCompilerNil = errors.New("compiler is nil")

// ExecutableUnit is a compiled script version together with the loader it
// came from and the data provider used to evaluate it.
type ExecutableUnit struct {
	// ID identifies this version, by default a prefix of the source's SHA-256.
	ID string

	CreatedAt    time.Time
	ScriptLoader loader.Loader
	Compiler     Compiler
	Content      ExecutableContent

	// DataProvider supplies the script's ctx global at each evaluation.
	DataProvider data.Provider

	logger *slog.Logger
}

// NewExecutableUnit loads and compiles a script. An empty versionID is
// replaced with a checksum of the source.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
) (*ExecutableUnit, error) {
	_, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if compiler == nil {
		return nil, ErrCompilerNil
	}
	if scriptLoader == nil {
		return nil, loader.ErrLoaderNil
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("compiler failed: %w", err)
	}

	if versionID == "" {
		versionID = helpers.SHA256(exe.GetSource())[:checksumLength]
	}

	logger = logger.With("exeID", versionID)
	logger.Debug("Executable unit created", "source", scriptLoader.GetSourceURL().String())

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Compiler:     compiler,
		Content:      exe,
		DataProvider: dataProvider,
		logger:       logger,
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt.Format(time.RFC3339), exe.Compiler, exe.ScriptLoader)
}

// GetID returns the version identifier.
func (exe *ExecutableUnit) GetID() string {
	return exe.ID
}

// GetContent returns the compiled script.
func (exe *ExecutableUnit) GetContent() ExecutableContent {
	return exe.Content
}

// GetCreatedAt returns when the unit was compiled.
func (exe *ExecutableUnit) GetCreatedAt() time.Time {
	return exe.CreatedAt
}

// GetEngineType returns the engine the script was compiled for.
func (exe *ExecutableUnit) GetEngineType() types.Type {
	return exe.Content.GetEngineType()
}

// GetCompiler returns the compiler that produced the content.
func (exe *ExecutableUnit) GetCompiler() Compiler {
	return exe.Compiler
}

// GetLoader returns the loader the source was read from.
func (exe *ExecutableUnit) GetLoader() loader.Loader {
	return exe.ScriptLoader
}

// GetDataProvider returns the provider of the script's input data.
func (exe *ExecutableUnit) GetDataProvider() data.Provider {
	return exe.DataProvider
}
