package combiner

import (
	"github.com/VinnyPutty/grpc/closure"
)

type listEntry struct {
	c      *closure.Closure
	err    error
	reason string
}

// CallCombinerClosureList accumulates (closure, error) pairs, typically
// while constructing a batch failure, and later drains them through a
// CallCombiner in insertion order. Building the list runs nothing.
type CallCombinerClosureList struct {
	closures []listEntry
}

// Add appends c with err to the list. reason is diagnostic only. Nothing
// runs until RunClosures.
func (l *CallCombinerClosureList) Add(c *closure.Closure, err error, reason string) {
	l.closures = append(l.closures, listEntry{c: c, err: err, reason: reason})
}

// Len returns the number of queued entries.
func (l *CallCombinerClosureList) Len() int { return len(l.closures) }

// Empty reports whether the list holds no entries.
func (l *CallCombinerClosureList) Empty() bool { return len(l.closures) == 0 }

// RunClosures schedules every entry, in insertion order, serialized through
// cc. The caller must hold the combiner; the first entry runs under that
// hold on ec directly while the rest go through cc.Start, so each entry
// (including the first) must call cc.Stop when it finishes. The list is
// consumed.
func (l *CallCombinerClosureList) RunClosures(ec *closure.ExecCtx, cc *CallCombiner) {
	if len(l.closures) == 0 {
		cc.Stop(ec, "no closures to schedule")
		return
	}
	for i := 1; i < len(l.closures); i++ {
		e := l.closures[i]
		cc.Start(ec, e.c, e.err, e.reason)
	}
	ec.Run(l.closures[0].c, l.closures[0].err)
	l.closures = nil
}
