// Package closure provides the deferred-execution primitives the transport
// core is built on: single-use closures, the per-goroutine ExecCtx work
// queue, and the independent background Executor.
package closure

import (
	"fmt"
	"sync/atomic"
)

// Func is the body of a Closure. It receives the ExecCtx the closure is
// running under, so the body can schedule follow-up work, and the error
// being delivered (nil on success paths).
type Func func(ec *ExecCtx, err error)

// Closure is a single-use deferred callback. Once a closure has been run or
// scheduled it is consumed; running or scheduling it again is a programming
// error and panics.
type Closure struct {
	f        Func
	name     string
	consumed atomic.Bool
}

// New returns a closure invoking f. The name is diagnostic only; it appears
// in panic messages and trace logs.
func New(name string, f Func) *Closure {
	if f == nil {
		panic("closure: nil func")
	}
	return &Closure{f: f, name: name}
}

// Name returns the diagnostic name given at construction.
func (c *Closure) Name() string { return c.name }

// Run consumes the closure and invokes it immediately on the calling
// goroutine. Panics if the closure was already consumed.
func (c *Closure) Run(ec *ExecCtx, err error) {
	c.consume()
	c.f(ec, err)
}

func (c *Closure) consume() {
	if c.consumed.Swap(true) {
		panic(fmt.Sprintf("closure: %q run twice", c.name))
	}
}
