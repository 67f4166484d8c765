package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/robbyt/go-jscore/engines/javascriptcore/compiler"
	"github.com/robbyt/go-jscore/engines/javascriptcore/internal"
	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/javascriptcore"
	"github.com/robbyt/go-jscore/platform"
	"github.com/robbyt/go-jscore/platform/constants"
	"github.com/robbyt/go-jscore/platform/data"
	"github.com/robbyt/go-jscore/platform/script"
)

var (
	ErrExecUnitNil = errors.New("executable unit is nil")
	ErrContentNil  = errors.New("content is nil")
	ErrClosed      = errors.New("evaluator is closed")
)

// Evaluator runs a compiled script on JavaScriptCore. Every Eval gets a
// fresh global context, so evaluations never see each other's globals.
// The contexts share one context group, and Eval is safe for concurrent
// use.
type Evaluator struct {
	// ctxKey is the global holding the script's input data (ctx)
	ctxKey string

	execUnit *script.ExecutableUnit
	group    *javascriptcore.ContextGroup

	closeOnce sync.Once
	closed    chan struct{}
	cleanup   runtime.Cleanup

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Evaluator for execUnit. Call Close to release the
// context group; it is also released when the Evaluator is collected.
func New(handler slog.Handler, execUnit *script.ExecutableUnit) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "javascriptcore", "Evaluator")

	group := javascriptcore.NewContextGroup()
	e := &Evaluator{
		ctxKey:     constants.Ctx,
		execUnit:   execUnit,
		group:      group,
		closed:     make(chan struct{}),
		logHandler: handler,
		logger:     logger,
	}
	e.cleanup = runtime.AddCleanup(e, func(g *javascriptcore.ContextGroup) { g.Release() }, group)
	return e
}

func (be *Evaluator) String() string {
	return "javascriptcore.Evaluator"
}

// Close releases the context group. Running evaluations finish normally.
func (be *Evaluator) Close() error {
	be.closeOnce.Do(func() {
		close(be.closed)
		be.cleanup.Stop()
		be.group.Release()
	})
	return nil
}

func (be *Evaluator) isClosed() bool {
	select {
	case <-be.closed:
		return true
	default:
		return false
	}
}

// loadInputData retrieves input data from the executable unit's provider.
func (be *Evaluator) loadInputData(ctx context.Context) (map[string]any, error) {
	logger := be.logger.WithGroup("loadInputData")

	if be.execUnit.GetDataProvider() == nil {
		logger.WarnContext(ctx, "no data provider available, using empty data")
		return make(map[string]any), nil
	}

	inputData, err := be.execUnit.GetDataProvider().GetData(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get input data from provider", "error", err)
		return nil, err
	}

	logger.DebugContext(ctx, "input data loaded from provider", "keys", len(inputData))
	return internal.ConvertInput(inputData)
}

// Eval runs the script with the data from ctx and returns its result.
//
// The result is the value of the script's last expression. When that is
// undefined, the global result variable is used instead. A function result
// is called with no arguments and its return value used. Promises and
// other thenables are rejected, since there is no event loop to settle
// them.
func (be *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	logger := be.logger.WithGroup("Eval")
	if be.isClosed() {
		return nil, ErrClosed
	}
	if be.execUnit == nil {
		return nil, ErrExecUnitNil
	}
	if be.execUnit.GetContent() == nil {
		return nil, ErrContentNil
	}

	exeID := be.execUnit.GetID()
	logger = logger.With("exeID", exeID)

	exe, ok := be.execUnit.GetContent().(*compiler.Executable)
	if !ok {
		return nil, fmt.Errorf(
			"unable to type assert content into *compiler.Executable for ID: %s",
			exeID,
		)
	}

	inputData, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}

	jsCtx, err := be.group.NewContext(
		javascriptcore.WithName(exeID),
		javascriptcore.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating context: %w", err)
	}
	defer jsCtx.Close()

	if err := be.prepare(jsCtx, exe, inputData); err != nil {
		return nil, err
	}

	startTime := time.Now()
	value, err := jsCtx.Evaluate(ctx, exe.GetSource(), javascriptcore.WithSourceURL(exe.GetSourceURL()))
	if err != nil {
		logger.DebugContext(ctx, "script failed", "error", err)
		return nil, fmt.Errorf("javascriptcore execution error: %w", err)
	}

	value, err = be.resolve(jsCtx, value)
	execTime := time.Since(startTime)
	if err != nil {
		return nil, err
	}

	defer value.Release()

	result, err := newEvalResult(value, execTime, exeID)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "exec complete", "result", result)
	return result, nil
}

// prepare installs console and the declared globals.
func (be *Evaluator) prepare(jsCtx *javascriptcore.Context, exe *compiler.Executable, input map[string]any) error {
	if err := javascriptcore.InstallConsole(jsCtx, be.logger.With("exeID", be.execUnit.GetID())); err != nil {
		return fmt.Errorf("installing console: %w", err)
	}
	globals := exe.GetGlobals()
	if len(globals) == 0 {
		globals = []string{be.ctxKey}
	}
	if err := internal.SetGlobals(jsCtx, be.ctxKey, globals, input); err != nil {
		return fmt.Errorf("setting globals: %w", err)
	}
	return nil
}

// resolve turns the completion value into the script's result. Values it
// replaces are released; on error, value is released too.
func (be *Evaluator) resolve(jsCtx *javascriptcore.Context, value *javascriptcore.Value) (*javascriptcore.Value, error) {
	if value.IsUndefined() {
		value.Release()
		r, err := jsCtx.GetGlobal(constants.Result)
		if err != nil {
			return nil, fmt.Errorf("reading result global: %w", err)
		}
		value = r
	}

	if value.IsFunction() {
		fn, _ := value.AsObject()
		r, err := fn.Call(nil)
		fn.Release()
		if err != nil {
			return nil, fmt.Errorf("calling result function: %w", err)
		}
		value = r
	}

	if isThenable(value) {
		value.Release()
		return nil, jserrors.Unsupported(jserrors.PhaseEvaluate, "promise results")
	}
	if value.IsFunction() {
		err := fmt.Errorf("function object returned from script: %s", value)
		value.Release()
		return nil, err
	}
	return value, nil
}

func isThenable(v *javascriptcore.Value) bool {
	obj, ok := v.AsObject()
	if !ok {
		return false
	}
	then, err := obj.Get("then")
	if err != nil {
		return false
	}
	defer then.Release()
	return then.IsFunction()
}

// AddDataToContext stores runtime data for a later Eval.
func (be *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := be.logger.WithGroup("AddDataToContext")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		return ctx, data.ErrNoProvider
	}

	return data.AddDataToContextHelper(
		ctx,
		logger,
		be.execUnit.GetDataProvider(),
		d...,
	)
}
