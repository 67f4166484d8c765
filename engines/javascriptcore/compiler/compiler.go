package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/javascriptcore"
	"github.com/robbyt/go-jscore/platform/script"
)

// Compiler validates JavaScript source by parsing it in a scratch context.
type Compiler struct {
	globals    []string
	sourceURL  string
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Compiler with the given options.
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "javascriptcore", "Compiler")
	}

	return c, nil
}

func (c *Compiler) String() string {
	return "javascriptcore.Compiler"
}

// Compile reads and closes the reader, then checks the script's syntax.
// Syntax errors wrap ErrValidationFailed and the *javascriptcore.Exception
// describing the error.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
	if scriptReader == nil {
		return nil, ErrContentNil
	}

	body, err := io.ReadAll(scriptReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if err := scriptReader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	return c.compile(string(body))
}

func (c *Compiler) compile(source string) (*Executable, error) {
	logger := c.logger.WithGroup("compile")
	if source == "" {
		return nil, ErrContentNil
	}

	if !hasStatements(source) {
		logger.Warn("Script contains no statements")
		return nil, ErrNoInstructions
	}

	logger.Debug("Starting validation", "sourceURL", c.sourceURL, "globals", c.globals)

	scratch, err := javascriptcore.NewContext(javascriptcore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecCreationFailed, err)
	}
	defer scratch.Close()

	if err := scratch.CheckSyntax(source, javascriptcore.WithSourceURL(c.sourceURL)); err != nil {
		logger.Warn("Compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	exe := newExecutable(source, c.sourceURL, c.globals)
	if exe == nil {
		return nil, ErrExecCreationFailed
	}

	logger.Debug("Validation completed")
	return exe, nil
}

// hasStatements reports whether source holds anything besides whitespace,
// line comments, block comments and a hashbang line.
func hasStatements(source string) bool {
	s := strings.TrimSpace(source)
	if strings.HasPrefix(s, "#!") {
		_, s, _ = strings.Cut(s, "\n")
	}
	for {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			return false
		case strings.HasPrefix(s, "//"):
			_, s, _ = strings.Cut(s, "\n")
		case strings.HasPrefix(s, "/*"):
			_, rest, closed := strings.Cut(s[2:], "*/")
			if !closed {
				// unterminated comment, let the parser report it
				return true
			}
			s = rest
		default:
			return true
		}
	}
}
