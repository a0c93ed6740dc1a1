package transport

import (
	"github.com/VinnyPutty/grpc/closure"
)

// TransportOp requests transport-level actions not tied to any one stream.
type TransportOp struct {
	// OnConsumed is scheduled once the transport has taken ownership of the
	// op's contents.
	OnConsumed *closure.Closure

	// DisconnectWithError, when non-nil, asks the transport to shut down
	// with the given error.
	DisconnectWithError error

	// GoAwayError, when non-nil, asks the transport to begin graceful
	// shutdown.
	GoAwayError error

	// SendPing, when non-nil, is scheduled once a ping has been
	// acknowledged by the peer.
	SendPing *closure.Closure
}

type madeTransportOp struct {
	inner *closure.Closure
	op    TransportOp
}

// MakeTransportOp returns a fire-and-forget op whose OnConsumed forwards
// onComplete, if non-nil, through the exec ctx with the same error and then
// releases the wrapper. onComplete fires exactly once; the caller does not
// track the op's lifetime.
func MakeTransportOp(onComplete *closure.Closure) *TransportOp {
	op := &madeTransportOp{inner: onComplete}
	op.op.OnConsumed = closure.New("made_transport_op", func(ec *closure.ExecCtx, err error) {
		if op.inner != nil {
			ec.Run(op.inner, err)
		}
	})
	return &op.op
}

type madeStreamOp struct {
	inner   *closure.Closure
	op      StreamOpBatch
	payload StreamOpBatchPayload
}

// MakeStreamOpBatch returns a batch with a self-owned payload whose
// OnComplete forwards onComplete, if non-nil, with the same error and then
// releases the wrapper. Used for ephemeral operations with no call state of
// their own, such as a cancellation probe.
func MakeStreamOpBatch(onComplete *closure.Closure) *StreamOpBatch {
	op := &madeStreamOp{inner: onComplete}
	op.op.Payload = &op.payload
	op.op.OnComplete = closure.New("made_stream_op_batch", func(ec *closure.ExecCtx, err error) {
		inner := op.inner
		op.inner = nil
		if inner != nil {
			inner.Run(ec, err)
		}
	})
	return &op.op
}
