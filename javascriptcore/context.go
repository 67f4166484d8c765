package javascriptcore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/sys"
)

// contexts maps native global contexts to their Go owner, so callbacks
// invoked by the engine can find the Context they run in.
var contexts sync.Map // sys.GlobalContextRef -> *Context

// ContextGroup is a set of contexts sharing one virtual machine. Values may
// be passed between contexts of the same group.
type ContextGroup struct {
	ref      sys.ContextGroupRef
	released atomic.Bool
}

// NewContextGroup creates an empty context group.
func NewContextGroup() *ContextGroup {
	return &ContextGroup{ref: sys.ContextGroupCreate()}
}

// NewContext creates a context in the group.
func (g *ContextGroup) NewContext(opts ...ContextOption) (*Context, error) {
	if g.released.Load() {
		return nil, jserrors.Released(jserrors.PhaseLifecycle, "context group")
	}
	return newContext(g, opts...)
}

// Release drops the caller's reference to the group. Contexts already
// created in the group keep it alive until they are closed.
func (g *ContextGroup) Release() {
	if g.released.CompareAndSwap(false, true) {
		sys.ContextGroupRelease(g.ref)
	}
}

// Context is a JavaScript global context.
//
// A Context may be used from several goroutines; the engine serializes
// access. Close must not race with other use of the context. Call.GoContext
// reports the context.Context of the innermost Evaluate, so callbacks see
// their own caller's context only when one goroutine drives the Context at
// a time.
type Context struct {
	id    string
	name  string
	ref   sys.GlobalContextRef
	group *ContextGroup

	closed atomic.Bool

	// live counts the protections held by Go wrappers, by ref. pending
	// holds refs whose wrappers were collected without Release.
	mu      sync.Mutex
	live    map[sys.ValueRef]int
	pending []sys.ValueRef

	// evalCtx is the context.Context of the innermost running Evaluate.
	evalCtx atomic.Pointer[context.Context]

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewContext creates a context in its own group.
func NewContext(opts ...ContextOption) (*Context, error) {
	return newContext(nil, opts...)
}

// NewContextInGroup creates a context in group. A nil group behaves like
// NewContext.
func NewContextInGroup(group *ContextGroup, opts ...ContextOption) (*Context, error) {
	if group == nil {
		return newContext(nil, opts...)
	}
	return group.NewContext(opts...)
}

func newContext(group *ContextGroup, opts ...ContextOption) (*Context, error) {
	cfg := &contextConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying context option: %w", err)
		}
	}

	var handler slog.Handler
	var logger *slog.Logger
	if cfg.logger != nil {
		logger = cfg.logger
		handler = logger.Handler()
	} else {
		handler, logger = helpers.SetupLogger(cfg.logHandler, "javascriptcore", "Context")
	}

	var ref sys.GlobalContextRef
	if group != nil {
		ref = sys.GlobalContextCreateInGroup(group.ref)
	} else {
		ref = sys.GlobalContextCreate()
	}
	if ref.IsNil() {
		return nil, jserrors.NilHandle(jserrors.PhaseLifecycle, "global context")
	}

	id := uuid.NewString()
	c := &Context{
		id:         id,
		name:       cfg.name,
		ref:        ref,
		group:      group,
		live:       make(map[sys.ValueRef]int),
		logHandler: handler,
		logger:     logger.With("contextID", id),
	}

	if cfg.name != "" {
		s := sys.StringCreate(cfg.name)
		sys.GlobalContextSetName(ref, s)
		sys.StringRelease(s)
		c.logger = c.logger.With("name", cfg.name)
	}

	contexts.Store(ref, c)
	c.logger.Debug("context created")
	return c, nil
}

// contextFor returns the Context owning a callback's execution context,
// falling back to the context the callback was created in.
func contextFor(ref sys.ContextRef, fallback *Context) *Context {
	if v, ok := contexts.Load(sys.ContextGetGlobalContext(ref)); ok {
		return v.(*Context)
	}
	return fallback
}

func (c *Context) String() string {
	return fmt.Sprintf("javascriptcore.Context{ID: %s, Name: %q}", c.id, c.name)
}

// ID returns the unique identifier assigned to this context.
func (c *Context) ID() string {
	return c.id
}

// Name returns the name set with WithName.
func (c *Context) Name() string {
	return c.name
}

// Group returns the group the context was created in, or nil.
func (c *Context) Group() *ContextGroup {
	return c.group
}

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Closed reports whether Close was called.
func (c *Context) Closed() bool {
	return c.closed.Load()
}

// Close releases the native context. Values still held from Go are
// unprotected and report released afterwards. It is safe to call more than
// once.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	live := c.live
	c.live = nil
	c.pending = nil
	c.mu.Unlock()

	cref := c.ref.Context()
	released := 0
	for ref, n := range live {
		for range n {
			sys.ValueUnprotect(cref, ref)
		}
		released += n
	}

	contexts.Delete(c.ref)
	sys.GlobalContextRelease(c.ref)
	c.logger.Debug("context closed", "released", released)
	return nil
}

// LiveValues returns the number of protections held by Values that have
// not been released. It is zero once the context is closed.
func (c *Context) LiveValues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, count := range c.live {
		n += count
	}
	return n
}

func (c *Context) cref() sys.ContextRef {
	return c.ref.Context()
}

// enter checks the context is usable and applies queued releases.
func (c *Context) enter(phase jserrors.Phase) error {
	if c.closed.Load() {
		return jserrors.Released(phase, "context")
	}
	c.drain()
	return nil
}

// track records a protection held by a new wrapper.
func (c *Context) track(ref sys.ValueRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live != nil {
		c.live[ref]++
	}
}

// untrack drops one protection of ref from the live table. It reports
// false when the context has closed, which already unprotected it.
func (c *Context) untrack(ref sys.ValueRef) bool {
	if c.closed.Load() || c.live == nil {
		return false
	}
	switch n := c.live[ref]; n {
	case 0:
		return false
	case 1:
		delete(c.live, ref)
	default:
		c.live[ref] = n - 1
	}
	return true
}

// unprotect releases one protection of ref held by a wrapper.
func (c *Context) unprotect(ref sys.ValueRef) {
	c.mu.Lock()
	ok := c.untrack(ref)
	c.mu.Unlock()
	if ok {
		sys.ValueUnprotect(c.cref(), ref)
	}
}

func (c *Context) deferUnprotect(ref sys.ValueRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return
	}
	c.pending = append(c.pending, ref)
}

func (c *Context) drain() {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	pending := make([]sys.ValueRef, 0, len(c.pending))
	for _, ref := range c.pending {
		if c.untrack(ref) {
			pending = append(pending, ref)
		}
	}
	c.pending = nil
	c.mu.Unlock()

	cref := c.cref()
	for _, ref := range pending {
		sys.ValueUnprotect(cref, ref)
	}
}

// sameGroup reports whether values from other may be used in c.
func (c *Context) sameGroup(other *Context) bool {
	if c == other {
		return true
	}
	return c.group != nil && c.group == other.group
}

// GC applies queued releases and asks the engine to collect garbage.
func (c *Context) GC() {
	if err := c.enter(jserrors.PhaseLifecycle); err != nil {
		return
	}
	sys.GarbageCollect(c.cref())
}

// goContext returns the context.Context of the running Evaluate call.
func (c *Context) goContext() context.Context {
	if p := c.evalCtx.Load(); p != nil {
		return *p
	}
	return context.Background()
}

// Evaluate runs source in the context and returns the completion value.
// JavaScript exceptions are returned as *Exception.
//
// ctx is checked before the script starts; the engine offers no way to
// interrupt a running script.
func (c *Context) Evaluate(ctx context.Context, source string, opts ...EvalOption) (*Value, error) {
	if err := c.enter(jserrors.PhaseEvaluate); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := newEvalConfig(opts)
	logger := c.logger.With("sourceURL", cfg.sourceURL)

	var this sys.ObjectRef
	if cfg.this != nil {
		if err := c.owns(cfg.this.Value, jserrors.PhaseEvaluate); err != nil {
			return nil, err
		}
		this = cfg.this.ref.Object()
	}

	script := sys.StringCreate(source)
	defer sys.StringRelease(script)

	var url sys.StringRef
	if cfg.sourceURL != "" {
		url = sys.StringCreate(cfg.sourceURL)
		defer sys.StringRelease(url)
	}

	prev := c.evalCtx.Swap(&ctx)
	defer c.evalCtx.Store(prev)

	logger.DebugContext(ctx, "evaluating script", "bytes", len(source))
	result, exc := sys.EvaluateScript(c.cref(), script, this, url, cfg.startLine)
	if !exc.IsNil() {
		e := c.newException(jserrors.PhaseEvaluate, exc)
		logger.DebugContext(ctx, "script threw", "error", e)
		return nil, e
	}
	return c.wrap(result), nil
}

// CheckSyntax parses source without running it. A syntax error is returned
// as *Exception of kind errors.KindSyntax.
func (c *Context) CheckSyntax(source string, opts ...EvalOption) error {
	if err := c.enter(jserrors.PhaseSyntax); err != nil {
		return err
	}
	cfg := newEvalConfig(opts)

	script := sys.StringCreate(source)
	defer sys.StringRelease(script)

	var url sys.StringRef
	if cfg.sourceURL != "" {
		url = sys.StringCreate(cfg.sourceURL)
		defer sys.StringRelease(url)
	}

	ok, exc := sys.CheckScriptSyntax(c.cref(), script, url, cfg.startLine)
	if ok {
		return nil
	}
	if exc.IsNil() {
		return jserrors.New(jserrors.PhaseSyntax, jserrors.KindSyntax).Detail("invalid script").Build()
	}
	return c.newException(jserrors.PhaseSyntax, exc)
}

// Global returns the global object.
func (c *Context) Global() (*Object, error) {
	if err := c.enter(jserrors.PhaseProperty); err != nil {
		return nil, err
	}
	return c.wrapObject(sys.ContextGetGlobalObject(c.cref())), nil
}

// SetGlobal converts v with ValueOf and stores it as a global variable.
func (c *Context) SetGlobal(name string, v any) error {
	global, err := c.Global()
	if err != nil {
		return err
	}
	defer global.Release()
	return global.Set(name, v)
}

// GetGlobal reads a global variable. Missing globals are undefined.
func (c *Context) GetGlobal(name string) (*Value, error) {
	global, err := c.Global()
	if err != nil {
		return nil, err
	}
	defer global.Release()
	return global.Get(name)
}
