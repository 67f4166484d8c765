// Package javascriptcore builds evaluators that run JavaScript on
// JavaScriptCore through the platform pipeline: a loader supplies the
// source, the compiler checks it once, and the evaluator runs it with
// fresh input data on every Eval.
package javascriptcore

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-jscore/engines/javascriptcore/compiler"
	"github.com/robbyt/go-jscore/engines/javascriptcore/evaluator"
	"github.com/robbyt/go-jscore/platform/constants"
	"github.com/robbyt/go-jscore/platform/data"
	"github.com/robbyt/go-jscore/platform/script"
	"github.com/robbyt/go-jscore/platform/script/loader"
)

// ErrProviderNil is returned by NewEvaluator without a data provider.
var ErrProviderNil = errors.New("provider is nil")

// FromJavaScriptCoreLoader creates an evaluator whose input comes only from
// data added at runtime with AddDataToContext.
func FromJavaScriptCoreLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
	)
}

// FromJavaScriptCoreLoaderWithData creates an evaluator whose input starts
// with staticData. Data added at runtime overrides static keys.
func FromJavaScriptCoreLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
) (*evaluator.Evaluator, error) {
	staticProvider := data.NewStaticProvider(staticData)
	dynamicProvider := data.NewContextProvider(constants.EvalData)
	compositeProvider := data.NewCompositeProvider(staticProvider, dynamicProvider)

	return NewEvaluator(
		logHandler,
		ldr,
		compositeProvider,
	)
}

// NewCompiler creates a JavaScriptCore compiler.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.New(opts...)
}

// NewEvaluator loads and checks the script from ldr and returns an
// evaluator ready to run it.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
) (*evaluator.Evaluator, error) {
	if dataProvider == nil {
		return nil, ErrProviderNil
	}
	if ldr == nil {
		return nil, loader.ErrLoaderNil
	}

	execUnitID := ""
	opts := []compiler.FunctionalOption{compiler.WithCtxGlobal()}
	if logHandler != nil {
		opts = append(opts, compiler.WithLogHandler(logHandler))
	}
	if sourceURL := ldr.GetSourceURL(); sourceURL != nil {
		execUnitID = sourceURL.String()
		opts = append(opts, compiler.WithSourceURL(execUnitID))
	}

	comp, err := NewCompiler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create JavaScriptCore compiler: %w", err)
	}

	execUnit, err := script.NewExecutableUnit(
		logHandler,
		execUnitID,
		ldr,
		comp,
		dataProvider,
	)
	if err != nil {
		return nil, err
	}

	return evaluator.New(logHandler, execUnit), nil
}
