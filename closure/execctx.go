package closure

// Flags describe properties of the goroutine an ExecCtx is running on.
type Flags uint32

const (
	// FlagThreadResourceLoop marks a goroutine that may be owned, indirectly,
	// by a call stack currently executing on it. Destroying such a call stack
	// inline could tear down the very goroutine running the destruction, so
	// work that may do that must be handed to the Executor instead.
	FlagThreadResourceLoop Flags = 1 << iota
)

type workItem struct {
	c   *Closure
	err error
}

// ExecCtx is a deferred work queue owned by a single goroutine. Closures
// scheduled on it with Run do not execute until the owner calls Flush; a
// running closure may schedule more work on the same ExecCtx and it will be
// picked up by the same Flush.
//
// An ExecCtx is not safe for concurrent use. Each goroutine driving
// transport or call work establishes its own and passes it down explicitly.
type ExecCtx struct {
	flags Flags
	queue []workItem
	exec  *Executor
}

// ExecCtxOption configures an ExecCtx.
type ExecCtxOption func(*ExecCtx)

// WithFlags sets the goroutine property flags.
func WithFlags(flags Flags) ExecCtxOption {
	return func(ec *ExecCtx) {
		ec.flags = flags
	}
}

// WithExecutor sets the independent executor reachable from this ExecCtx.
// When unset, the package default executor is used.
func WithExecutor(e *Executor) ExecCtxOption {
	return func(ec *ExecCtx) {
		ec.exec = e
	}
}

// NewExecCtx returns an empty ExecCtx.
func NewExecCtx(opts ...ExecCtxOption) *ExecCtx {
	ec := &ExecCtx{}
	for _, o := range opts {
		o(ec)
	}
	return ec
}

// ThreadResourceLoop reports whether the owning goroutine may be owned by a
// call stack executing on it. See FlagThreadResourceLoop.
func (ec *ExecCtx) ThreadResourceLoop() bool {
	return ec.flags&FlagThreadResourceLoop != 0
}

// Executor returns the independent executor associated with this ExecCtx,
// falling back to the package default.
func (ec *ExecCtx) Executor() *Executor {
	if ec.exec != nil {
		return ec.exec
	}
	return DefaultExecutor()
}

// Run consumes c and schedules it to be invoked with err on the next Flush.
func (ec *ExecCtx) Run(c *Closure, err error) {
	c.consume()
	ec.queue = append(ec.queue, workItem{c: c, err: err})
}

// Flush drains the queue in FIFO order until it is empty, including work
// scheduled by the closures it runs.
func (ec *ExecCtx) Flush() {
	for len(ec.queue) > 0 {
		item := ec.queue[0]
		ec.queue = ec.queue[1:]
		item.c.f(ec, item.err)
	}
}
