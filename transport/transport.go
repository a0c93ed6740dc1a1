// Package transport defines the contract between call-level logic and a
// concrete network transport: stream reference counting, stream operation
// batches with their failure-propagation protocol, and the capability
// interface a transport implements.
package transport

import (
	"github.com/VinnyPutty/grpc/closure"
	"github.com/VinnyPutty/grpc/peer"
)

// Stream is one logical request/response exchange multiplexed over a
// transport connection. The concrete representation belongs to the
// transport; the core only needs access to the stream's refcount.
type Stream interface {
	RefCount() *StreamRefCount
}

// StreamRef takes an additional reference on s.
func StreamRef(s Stream) {
	s.RefCount().Ref()
}

// StreamUnref drops a reference on s, destroying the stream when it was the
// last one.
func StreamUnref(ec *closure.ExecCtx, s Stream) {
	s.RefCount().Unref(ec)
}

// Pollset is a set of file descriptors an I/O layer polls for readiness.
// Implemented by the I/O layer; opaque to this package.
type Pollset interface {
	// Kick wakes a poller blocked on the set.
	Kick() error
}

// PollsetSet is a set of pollsets.
type PollsetSet interface {
	AddPollset(Pollset)
}

// PollingEntity names how a stream learns about I/O readiness: a single
// pollset, a pollset set, or nothing at all. The zero value is the empty
// entity, which is valid for execution models that do not expose file
// descriptors.
type PollingEntity struct {
	pollset    Pollset
	pollsetSet PollsetSet
}

// PollingEntityFromPollset returns an entity wrapping ps.
func PollingEntityFromPollset(ps Pollset) PollingEntity {
	return PollingEntity{pollset: ps}
}

// PollingEntityFromPollsetSet returns an entity wrapping pss.
func PollingEntityFromPollsetSet(pss PollsetSet) PollingEntity {
	return PollingEntity{pollsetSet: pss}
}

// Pollset returns the wrapped pollset, or nil.
func (pe PollingEntity) Pollset() Pollset { return pe.pollset }

// PollsetSet returns the wrapped pollset set, or nil.
func (pe PollingEntity) PollsetSet() PollsetSet { return pe.pollsetSet }

// Empty reports whether the entity wraps neither variant.
func (pe PollingEntity) Empty() bool {
	return pe.pollset == nil && pe.pollsetSet == nil
}

// Transport is the capability contract implemented by a concrete transport.
//
// Methods may be called concurrently from multiple goroutines. Given a
// batch, the transport must eventually cause every closure the batch names
// to fire exactly once, either through normal completion or through one of
// the batch failure-propagation functions.
type Transport interface {
	// Name returns the transport's identifier, e.g. "http2" or "inproc".
	Name() string

	// PerformStreamOp hands a batch of stream operations to the transport.
	PerformStreamOp(ec *closure.ExecCtx, s Stream, b *StreamOpBatch)

	// PerformOp hands a transport-level op (ping, goaway, disconnect) to the
	// transport.
	PerformOp(ec *closure.ExecCtx, op *TransportOp)

	// SetPollset registers the pollset that covers s.
	SetPollset(s Stream, ps Pollset)

	// SetPollsetSet registers the pollset set that covers s.
	SetPollsetSet(s Stream, pss PollsetSet)

	// Peer returns the addresses of the underlying connection, or nil if the
	// transport has none.
	Peer() *peer.Peer

	// Close tears down the transport. Pending batches fail with err.
	Close(err error)
}

// BindPollingEntity registers entity as the readiness source for s. Exactly
// one of the variants is dispatched; the empty entity is a no-op, which is
// the supported shape for event-engine style backends with no fds.
func BindPollingEntity(t Transport, s Stream, entity PollingEntity) {
	switch {
	case entity.pollset != nil:
		t.SetPollset(s, entity.pollset)
	case entity.pollsetSet != nil:
		t.SetPollsetSet(s, entity.pollsetSet)
	}
}
