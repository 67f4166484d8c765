package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns a handler and a logger for a component of the engine.
// A nil handler is replaced by a text handler on stdout, grouped under
// component, and a warning is logged about the fallback.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - component: The engine component (e.g., "javascriptcore", "compiler")
//   - groupName: Optional additional group name within the component
//
// Returns:
//   - The configured handler
//   - A logger created from the handler
func SetupLogger(handler slog.Handler, component string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName != "" {
		return handler, slog.New(handler.WithGroup(groupName))
	}
	return handler, slog.New(handler)
}
