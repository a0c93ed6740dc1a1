// Package combiner provides the call combiner, the serialization primitive
// that keeps the closures of one logical call from ever running concurrently
// with each other, without the call holding an explicit lock.
package combiner

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/VinnyPutty/grpc/closure"
)

type queuedClosure struct {
	c   *closure.Closure
	err error
}

// CallCombiner serializes closure execution for one call. The first Start
// while the combiner is idle schedules its closure on the caller's ExecCtx
// and the caller is said to hold the combiner; later Starts queue. Every
// closure scheduled through the combiner must call Stop once it is done with
// the call state, which releases the next queued closure.
type CallCombiner struct {
	size atomic.Int64

	mu    sync.Mutex
	queue []queuedClosure
}

// New returns an idle CallCombiner.
func New() *CallCombiner {
	return &CallCombiner{}
}

// Start schedules c to run with err, serialized with all other closures of
// this combiner. reason is diagnostic only.
func (cc *CallCombiner) Start(ec *closure.ExecCtx, c *closure.Closure, err error, reason string) {
	prev := cc.size.Add(1) - 1
	if ce := zap.L().Check(zap.DebugLevel, "call combiner start"); ce != nil {
		ce.Write(zap.String("closure", c.Name()), zap.String("reason", reason), zap.Int64("size", prev+1))
	}
	if prev == 0 {
		// Idle combiner: the caller takes it and the closure runs on the
		// caller's exec ctx.
		ec.Run(c, err)
		return
	}
	cc.mu.Lock()
	cc.queue = append(cc.queue, queuedClosure{c: c, err: err})
	cc.mu.Unlock()
}

// Stop releases the combiner hold of the currently executing closure. If
// more closures are queued, the next one is scheduled on ec.
func (cc *CallCombiner) Stop(ec *closure.ExecCtx, reason string) {
	n := cc.size.Add(-1)
	if ce := zap.L().Check(zap.DebugLevel, "call combiner stop"); ce != nil {
		ce.Write(zap.String("reason", reason), zap.Int64("size", n))
	}
	if n < 0 {
		panic("combiner: stop without matching start")
	}
	if n == 0 {
		return
	}
	// A concurrent Start may have bumped size before appending its closure;
	// spin until the queue catches up.
	for {
		cc.mu.Lock()
		if len(cc.queue) > 0 {
			next := cc.queue[0]
			cc.queue = cc.queue[1:]
			cc.mu.Unlock()
			ec.Run(next.c, next.err)
			return
		}
		cc.mu.Unlock()
		runtime.Gosched()
	}
}
