package transport

import (
	"github.com/VinnyPutty/grpc/closure"
	"github.com/VinnyPutty/grpc/combiner"
	"github.com/VinnyPutty/grpc/mem"
	"github.com/VinnyPutty/grpc/metadata"
)

// StreamOpBatch describes a set of operations requested on a stream in one
// shot. A flag being set means the matching payload field is meaningful.
// Every closure the batch names fires exactly once over the batch's
// lifetime, whether the batch completes or fails.
type StreamOpBatch struct {
	SendInitialMetadata  bool
	SendMessage          bool
	SendTrailingMetadata bool
	RecvInitialMetadata  bool
	RecvMessage          bool
	RecvTrailingMetadata bool
	Cancel               bool

	// OnComplete is scheduled once all requested operations have resolved.
	// It is always the last closure of the batch to fire; receiving it means
	// batch state may be released.
	OnComplete *closure.Closure

	Payload *StreamOpBatchPayload
}

// StreamOpBatchPayload carries the per-operation data of a batch. Receive
// out-params point into caller-owned state; the transport fills them in
// before scheduling the matching ready closure.
type StreamOpBatchPayload struct {
	SendInitialMetadata struct {
		Metadata metadata.MD
	}

	SendMessage struct {
		Message mem.BufferSlice
	}

	SendTrailingMetadata struct {
		Metadata metadata.MD
	}

	RecvInitialMetadata struct {
		Metadata *metadata.MD
		Ready    *closure.Closure
	}

	RecvMessage struct {
		Message *mem.BufferSlice
		Ready   *closure.Closure
	}

	RecvTrailingMetadata struct {
		Metadata *metadata.MD
		Ready    *closure.Closure
	}

	Cancel struct {
		Err error
	}
}

// QueueFinishWithFailure appends, in order, the ready closure of every
// requested receive operation and finally OnComplete to closures, each
// paired with err. Nothing runs; the caller drains the list through a
// combiner. Use this when already executing under the call's combiner.
func (b *StreamOpBatch) QueueFinishWithFailure(err error, closures *combiner.CallCombinerClosureList) {
	if b.RecvInitialMetadata && b.Payload.RecvInitialMetadata.Ready != nil {
		closures.Add(b.Payload.RecvInitialMetadata.Ready, err, "failing recv_initial_metadata_ready")
	}
	if b.RecvMessage && b.Payload.RecvMessage.Ready != nil {
		closures.Add(b.Payload.RecvMessage.Ready, err, "failing recv_message_ready")
	}
	if b.RecvTrailingMetadata && b.Payload.RecvTrailingMetadata.Ready != nil {
		closures.Add(b.Payload.RecvTrailingMetadata.Ready, err, "failing recv_trailing_metadata_ready")
	}
	if b.OnComplete != nil {
		closures.Add(b.OnComplete, err, "failing on_complete")
	}
}

// FinishWithFailure fails the batch with err, delivering the closures
// serialized through cc. Equivalent to QueueFinishWithFailure followed by an
// immediate RunClosures.
func (b *StreamOpBatch) FinishWithFailure(ec *closure.ExecCtx, err error, cc *combiner.CallCombiner) {
	var closures combiner.CallCombinerClosureList
	b.QueueFinishWithFailure(err, &closures)
	closures.RunClosures(ec, cc)
}

// FinishWithFailureFromTransport fails the batch with err directly through
// ec, bypassing any call combiner. For use by a transport that discovers,
// off the call's combiner, that the batch can never complete (for example
// after a connection reset). The ordering matches the combiner path, with
// OnComplete last.
func (b *StreamOpBatch) FinishWithFailureFromTransport(ec *closure.ExecCtx, err error) {
	if b.RecvInitialMetadata && b.Payload.RecvInitialMetadata.Ready != nil {
		ec.Run(b.Payload.RecvInitialMetadata.Ready, err)
	}
	if b.RecvMessage && b.Payload.RecvMessage.Ready != nil {
		ec.Run(b.Payload.RecvMessage.Ready, err)
	}
	if b.RecvTrailingMetadata && b.Payload.RecvTrailingMetadata.Ready != nil {
		ec.Run(b.Payload.RecvTrailingMetadata.Ready, err)
	}
	if b.OnComplete != nil {
		ec.Run(b.OnComplete, err)
	}
}
