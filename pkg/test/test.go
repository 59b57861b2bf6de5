// Package test provides helpers shared by tests.
package test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/outofforest/logger"
)

// Context returns a context with a logger attached, canceled when the test
// finishes.
func Context(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), zap.NewNop()))
	t.Cleanup(cancel)
	return ctx
}
