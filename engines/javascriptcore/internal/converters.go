// Package internal converts evaluation input to values JavaScript scripts
// can read, and evaluation output back to data that outlives the context.
package internal

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/javascriptcore"
)

// ConvertInput prepares input data for a script. HTTP requests become
// request maps and header and query maps become maps of arrays. Other
// values are left for javascriptcore.ValueOf.
func ConvertInput(input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(input))
	var errs []error
	for k, v := range input {
		converted, err := convertValue(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("converting input %q: %w", k, err))
			continue
		}
		out[k] = converted
	}
	return out, errors.Join(errs...)
}

func convertValue(v any) (any, error) {
	switch t := v.(type) {
	case *http.Request:
		if t == nil {
			return nil, nil
		}
		return helpers.RequestToMap(t)
	case http.Header:
		return stringLists(t), nil
	case url.Values:
		return stringLists(t), nil
	case map[string]any:
		return ConvertInput(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			c, err := convertValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

func stringLists(m map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, vs := range m {
		list := make([]any, len(vs))
		for i, s := range vs {
			list[i] = s
		}
		out[k] = list
	}
	return out
}

// SetGlobals defines the script's globals: ctxKey holds the whole input,
// and every other declared name holds the input entry of the same name, or
// undefined.
func SetGlobals(c *javascriptcore.Context, ctxKey string, globals []string, input map[string]any) error {
	var errs []error
	for _, name := range globals {
		var v any
		if name == ctxKey {
			v = input
		} else if entry, ok := input[name]; ok {
			v = entry
		} else {
			undefined := c.Undefined()
			defer undefined.Release()
			v = undefined
		}
		if err := c.SetGlobal(name, v); err != nil {
			errs = append(errs, fmt.Errorf("setting global %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Detach removes values tied to the evaluation context from exported
// output. Functions are released, then dropped from objects and replaced by
// nil in arrays, as in JSON.stringify.
func Detach(v any) any {
	switch t := v.(type) {
	case *javascriptcore.Object:
		t.Release()
		return nil
	case map[string]any:
		for k, elem := range t {
			if fn, isFunc := elem.(*javascriptcore.Object); isFunc {
				fn.Release()
				delete(t, k)
				continue
			}
			t[k] = Detach(elem)
		}
		return t
	case []any:
		for i, elem := range t {
			t[i] = Detach(elem)
		}
		return t
	default:
		return v
	}
}
