// Package mocks provides testify mocks of the platform evaluator
// interfaces for code that consumes evaluators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-jscore/platform"
)

var _ platform.Evaluator = (*Evaluator)(nil)

// Evaluator is a mock platform.Evaluator.
type Evaluator struct {
	mock.Mock
}

// Eval returns the response and error the mock was set up with.
func (m *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(platform.EvaluatorResponse)
	return resp, args.Error(1)
}

// AddDataToContext returns the context and error the mock was set up with.
func (m *Evaluator) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	if next, ok := args.Get(0).(context.Context); ok {
		return next, args.Error(1)
	}
	return ctx, args.Error(1)
}
