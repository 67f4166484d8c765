// Package data supplies the runtime input of a script. Providers store maps
// in a context.Context before evaluation and read them back when the
// evaluator builds the script's ctx global.
package data

import (
	"context"
)

// Getter retrieves the data stored for a script evaluation.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter prepares data for script evaluation by enriching a context.
// Preparing and evaluating are separate steps, so they may run in
// different places.
type Setter interface {
	// AddDataToContext returns a context carrying the given maps. Later
	// maps override earlier ones; nested maps are merged.
	//
	// Example:
	//  scriptData := map[string]any{"greeting": "Hello, World!"}
	//  enrichedCtx, err := evaluator.AddDataToContext(ctx, map[string]any{"request": request}, scriptData)
	//  if err != nil {
	//      return err
	//  }
	//  result, err := evaluator.Eval(enrichedCtx)
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider both stores and retrieves script data.
type Provider interface {
	Getter
	Setter
}
