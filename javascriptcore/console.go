package javascriptcore

import (
	"log/slog"
	"strings"
)

var consoleLevels = map[string]slog.Level{
	"log":   slog.LevelInfo,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
	"debug": slog.LevelDebug,
}

// InstallConsole defines a global console object whose log, info, warn,
// error and debug methods write to logger. A nil logger uses the
// context's logger.
func InstallConsole(c *Context, logger *slog.Logger) error {
	if logger == nil {
		logger = c.logger
	}
	logger = logger.With("source", "console")

	console, err := c.NewObject()
	if err != nil {
		return err
	}
	defer console.Release()

	for name, level := range consoleLevels {
		fn, err := c.NewFunction(name, func(call *Call) (*Value, error) {
			logger.Log(call.GoContext(), level, Format(call.Args...))
			return nil, nil
		})
		if err != nil {
			return err
		}
		err = console.Set(name, fn)
		fn.Release()
		if err != nil {
			return err
		}
	}
	return c.SetGlobal("console", console)
}

// Format renders values the way console.log does: strings verbatim, plain
// objects and arrays as JSON, everything else by string conversion,
// separated by spaces.
func Format(args ...*Value) string {
	parts := make([]string, len(args))
	for i, v := range args {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, " ")
}

func formatValue(v *Value) string {
	switch {
	case !v.usable():
		return v.String()
	case v.IsString(), v.IsSymbol():
		return v.String()
	case v.IsFunction():
		if obj, ok := v.AsObject(); ok {
			if name, err := obj.Get("name"); err == nil {
				defer name.Release()
				if n := name.String(); n != "" {
					return "[Function: " + n + "]"
				}
			}
		}
		return "[Function (anonymous)]"
	case v.IsDate():
		return v.String()
	case v.IsObject():
		if isError(v) {
			return v.String()
		}
		if s, err := v.ToJSON(0); err == nil && s != "undefined" {
			return s
		}
	}
	return v.String()
}

func isError(v *Value) bool {
	global, err := v.ctx.Global()
	if err != nil {
		return false
	}
	defer global.Release()
	ctor, err := global.GetObject("Error")
	if err != nil {
		return false
	}
	defer ctor.Release()
	ok, err := v.InstanceOf(ctor)
	return err == nil && ok
}
