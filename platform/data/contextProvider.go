package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/platform/constants"
)

// ContextProvider stores runtime data in the context under a key.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider creates a ContextProvider for the given context key,
// normally constants.EvalData.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{contextKey: contextKey}
}

// GetData returns the map stored under the provider's key, or an empty map
// when nothing was stored.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, errors.New("context key is empty")
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}

	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid input data type: expected map[string]any, got %T", value)
	}
	return d, nil
}

// AddDataToContext merges the maps into the data already in ctx. Nested
// maps merge recursively, later values win, and *http.Request values are
// converted to maps. Entries that fail are skipped and reported together;
// the returned context holds everything else.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, errors.New("context key is empty")
	}

	toStore := make(map[string]any)
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}

	var errz []error
	for _, dataMap := range data {
		for key, value := range dataMap {
			if key == "" {
				errz = append(errz, errors.New("empty keys are not allowed"))
				continue
			}
			processed, err := processValue(value)
			if err != nil {
				errz = append(errz, fmt.Errorf("processing value for key '%s': %w", key, err))
				continue
			}
			mergeInto(toStore, key, processed)
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}

// processValue converts requests to maps and copies nested maps, so later
// merges never write into the caller's maps.
func processValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *http.Request:
		if v == nil {
			return nil, nil
		}
		return helpers.RequestToMap(v)
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			if k == "" {
				return nil, errors.New("empty keys are not allowed in nested maps")
			}
			processed, err := processValue(val)
			if err != nil {
				return nil, fmt.Errorf("processing nested value for key '%s': %w", k, err)
			}
			result[k] = processed
		}
		return result, nil
	default:
		return v, nil
	}
}

func mergeInto(target map[string]any, key string, value any) {
	if newMap, ok := value.(map[string]any); ok {
		if existing, ok := target[key].(map[string]any); ok {
			merged := maps.Clone(existing)
			for k, v := range newMap {
				mergeInto(merged, k, v)
			}
			target[key] = merged
			return
		}
	}
	target[key] = value
}
