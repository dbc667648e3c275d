package irrecoverable

import (
	"context"
	"runtime"
	"testing"
)

// MockSignalerContext is a SignalerContext for tests. Unless errors are
// expected, a thrown error fails the test.
type MockSignalerContext struct {
	context.Context
	t      *testing.T
	thrown chan error
}

var _ SignalerContext = &MockSignalerContext{}

func (m MockSignalerContext) sealed() {}

// Throw stops the calling goroutine like a real signaler does.
func (m MockSignalerContext) Throw(err error) {
	if m.thrown == nil {
		m.t.Fatalf("mock signaler context received error: %v", err)
	}
	select {
	case m.thrown <- err:
	default:
		m.t.Logf("mock signaler context dropped error: %v", err)
	}
	runtime.Goexit()
}

func NewMockSignalerContext(t *testing.T, ctx context.Context) *MockSignalerContext {
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
	}
}

func NewMockSignalerContextWithCancel(t *testing.T, parent context.Context) (*MockSignalerContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return NewMockSignalerContext(t, ctx), cancel
}

// NewMockSignalerContextExpectError returns a cancelable context whose thrown
// errors are delivered on the returned channel instead of failing the test.
func NewMockSignalerContextExpectError(t *testing.T, parent context.Context) (*MockSignalerContext, context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(parent)
	thrown := make(chan error, 8)
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
		thrown:  thrown,
	}, cancel, thrown
}
