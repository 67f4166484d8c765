package data

import (
	"context"
	"errors"
	"maps"
)

// ErrStaticProviderNoRuntimeUpdates is returned when runtime data is added
// to a StaticProvider.
var ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not accept runtime data")

// StaticProvider returns the same data for every evaluation. It holds the
// data given when a script is loaded, such as configuration values.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a StaticProvider. A nil map is treated as empty.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{data: data}
}

// GetData returns a copy of the static data.
func (p *StaticProvider) GetData(context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails with ErrStaticProviderNoRuntimeUpdates,
// unless there is nothing to add.
func (p *StaticProvider) AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error) {
	for _, d := range data {
		if len(d) > 0 {
			return ctx, ErrStaticProviderNoRuntimeUpdates
		}
	}
	return ctx, nil
}
