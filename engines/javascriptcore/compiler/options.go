package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/robbyt/go-jscore/platform/constants"
)

// FunctionalOption configures a Compiler.
type FunctionalOption func(*Compiler) error

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// WithGlobals declares global variables the evaluator defines before the
// script runs. Each is set from the top-level input key of the same name,
// or undefined when the input has no such key.
func WithGlobals(globals []string) FunctionalOption {
	return func(c *Compiler) error {
		c.globals = slices.Clone(globals)
		return nil
	}
}

// WithCtxGlobal declares the ctx global, which holds all input data.
func WithCtxGlobal() FunctionalOption {
	return func(c *Compiler) error {
		if !slices.Contains(c.globals, constants.Ctx) {
			c.globals = append(c.globals, constants.Ctx)
		}
		return nil
	}
}

// WithSourceURL names the script in syntax errors. Evaluators pass the
// loader's source URL.
func WithSourceURL(url string) FunctionalOption {
	return func(c *Compiler) error {
		c.sourceURL = url
		return nil
	}
}

// WithLogHandler sets the log handler for the compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the compiler.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *Compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func (c *Compiler) applyDefaults() {
	if c.globals == nil {
		c.globals = []string{}
	}
}

func (c *Compiler) validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.globals))
	for _, g := range c.globals {
		if !identifier.MatchString(g) {
			errs = append(errs, fmt.Errorf("global %q is not a valid JavaScript identifier", g))
			continue
		}
		if seen[g] {
			errs = append(errs, fmt.Errorf("global %q declared twice", g))
		}
		seen[g] = true
	}
	return errors.Join(errs...)
}
