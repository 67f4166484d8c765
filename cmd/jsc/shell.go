package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

// shell owns the context every file, expression and REPL line runs in, so
// declarations made by one are visible to the next.
type shell struct {
	jsCtx  *javascriptcore.Context
	out    io.Writer
	json   bool
	logger *slog.Logger
}

func newShell(out io.Writer, logger *slog.Logger, asJSON bool) (*shell, error) {
	jsCtx, err := javascriptcore.NewContext(
		javascriptcore.WithName("jsc"),
		javascriptcore.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating context: %w", err)
	}

	sh := &shell{jsCtx: jsCtx, out: out, json: asJSON, logger: logger}
	if err := sh.install(); err != nil {
		_ = jsCtx.Close()
		return nil, err
	}
	return sh, nil
}

func (sh *shell) install() error {
	if err := javascriptcore.InstallConsole(sh.jsCtx, sh.logger); err != nil {
		return fmt.Errorf("installing console: %w", err)
	}

	printFn, err := sh.jsCtx.NewFunction("print", func(call *javascriptcore.Call) (*javascriptcore.Value, error) {
		_, err := fmt.Fprintln(sh.out, javascriptcore.Format(call.Args...))
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("creating print: %w", err)
	}
	defer printFn.Release()
	return sh.jsCtx.SetGlobal("print", printFn)
}

func (sh *shell) Close() error {
	return sh.jsCtx.Close()
}

// eval runs source and returns its completion value.
func (sh *shell) eval(ctx context.Context, source, sourceURL string) (*javascriptcore.Value, error) {
	return sh.jsCtx.Evaluate(ctx, source, javascriptcore.WithSourceURL(sourceURL))
}

// runFile evaluates a script file. Results of files are not printed.
func (sh *shell) runFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := sh.eval(ctx, string(src), path)
	if err != nil {
		return err
	}
	v.Release()
	return nil
}

// runSource evaluates source and prints its result.
func (sh *shell) runSource(ctx context.Context, source, sourceURL string) error {
	v, err := sh.eval(ctx, source, sourceURL)
	if err != nil {
		return err
	}
	defer v.Release()
	return sh.printValue(v)
}

func (sh *shell) printValue(v *javascriptcore.Value) error {
	s := javascriptcore.Format(v)
	if sh.json {
		js, err := v.ToJSON(2)
		if err != nil {
			return err
		}
		s = js
	}
	_, err := fmt.Fprintln(sh.out, s)
	return err
}

// incomplete reports whether err is a syntax error caused by input ending
// early, meaning more lines may complete it.
func incomplete(err error) bool {
	var exc *javascriptcore.Exception
	if !errors.As(err, &exc) || jserrors.KindOf(err) != jserrors.KindSyntax {
		return false
	}
	msg := strings.ToLower(exc.Message)
	for _, m := range []string{"unexpected end of script", "unexpected eof", "unterminated"} {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
