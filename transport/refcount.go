package transport

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/VinnyPutty/grpc/closure"
)

// StreamRefCount ties the liveness of a stream object to a destroy closure.
// The count starts at 1, representing the creator's own reference, and the
// destroy closure fires exactly once, at the 1->0 transition.
type StreamRefCount struct {
	refs     atomic.Int32
	destroy  *closure.Closure
	debugTag string
}

// RefCountOption configures a StreamRefCount.
type RefCountOption func(*StreamRefCount)

// WithDebugTag attaches a tag logged on every ref/unref transition. Used for
// leak tracing; it has no effect on the refcount itself.
func WithDebugTag(tag string) RefCountOption {
	return func(rc *StreamRefCount) {
		rc.debugTag = tag
	}
}

// NewStreamRefCount returns a refcount with count 1 whose destroy closure
// fires when the count reaches zero.
func NewStreamRefCount(destroy *closure.Closure, opts ...RefCountOption) *StreamRefCount {
	rc := &StreamRefCount{destroy: destroy}
	for _, o := range opts {
		o(rc)
	}
	rc.refs.Store(1)
	return rc
}

// Ref takes an additional reference. Must not be called once the count has
// reached zero.
func (rc *StreamRefCount) Ref() {
	n := rc.refs.Add(1)
	if n <= 1 {
		panic("transport: ref of destroyed stream")
	}
	rc.trace("ref", n)
}

// Unref drops a reference. At the 1->0 transition the destroy closure is
// scheduled; see destroyStream for where it runs. Unref below zero panics.
func (rc *StreamRefCount) Unref(ec *closure.ExecCtx) {
	n := rc.refs.Add(-1)
	rc.trace("unref", n)
	switch {
	case n > 0:
	case n == 0:
		rc.destroyStream(ec)
	default:
		panic("transport: too many stream unrefs")
	}
}

// destroyStream runs the destroy closure for the last reference. When the
// calling goroutine may be owned, indirectly, by the call stack being
// destroyed, running destroy inline could tear down the goroutine executing
// this code, so the closure is handed to the independent executor and runs
// there under a fresh exec ctx. Otherwise it goes through the caller's exec
// ctx.
func (rc *StreamRefCount) destroyStream(ec *closure.ExecCtx) {
	if !ec.ThreadResourceLoop() {
		ec.Run(rc.destroy, nil)
		return
	}
	exec := ec.Executor()
	err := exec.Run(func() {
		fresh := closure.NewExecCtx(closure.WithExecutor(exec))
		fresh.Run(rc.destroy, nil)
		fresh.Flush()
	})
	if err != nil {
		zap.L().Error("transport: stream destroy dropped", zap.String("tag", rc.debugTag), zap.Error(err))
	}
}

func (rc *StreamRefCount) trace(op string, n int32) {
	if rc.debugTag == "" {
		return
	}
	zap.L().Debug("stream refcount "+op, zap.String("tag", rc.debugTag), zap.Int32("refs", n))
}
