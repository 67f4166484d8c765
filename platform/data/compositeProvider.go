package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider chains providers. Data from later providers overrides
// data from earlier ones.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries the given providers
// in order. Nil providers are skipped.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{providers: providers}
}

// GetData deep-merges the data of every provider. It fails on the first
// provider error.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		result = deepMerge(result, d)
	}
	return result, nil
}

// deepMerge returns base overlaid with over. Nested maps merge; every other
// value, arrays included, is replaced.
func deepMerge(base, over map[string]any) map[string]any {
	result := maps.Clone(base)
	for k, v := range over {
		baseMap, baseIsMap := result[k].(map[string]any)
		overMap, overIsMap := v.(map[string]any)
		if baseIsMap && overIsMap {
			result[k] = deepMerge(baseMap, overMap)
			continue
		}
		result[k] = v
	}
	return result
}

// AddDataToContext passes the data to every provider, threading the
// context through them. Static providers refusing runtime data are ignored
// as long as some other provider accepts it. The call fails only when no
// provider accepted the data.
//
// Example:
//
//	staticProvider := NewStaticProvider(map[string]any{"config": configData})
//	contextProvider := NewContextProvider(constants.EvalData)
//	composite := NewCompositeProvider(staticProvider, contextProvider)
//	ctx, err := composite.AddDataToContext(ctx, map[string]any{"request": req})
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx
	var errs, staticErrs []error
	accepted, dynamic := 0, 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		if errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
			staticErrs = append(staticErrs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}
		dynamic++
		if err != nil {
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}
		finalCtx = nextCtx
		accepted++
	}

	switch {
	case dynamic == 0 && len(staticErrs) > 0:
		return ctx, errors.Join(staticErrs...)
	case dynamic > 0 && accepted == 0:
		return ctx, errors.Join(errs...)
	}
	return finalCtx, nil
}
