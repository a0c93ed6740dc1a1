package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VinnyPutty/grpc/closure"
	"github.com/VinnyPutty/grpc/combiner"
)

type batchRecorder struct {
	order []string
	errs  map[string]error
	count map[string]int
}

func newBatchRecorder() *batchRecorder {
	return &batchRecorder{errs: make(map[string]error), count: make(map[string]int)}
}

func (r *batchRecorder) record(name string, err error) {
	r.order = append(r.order, name)
	r.errs[name] = err
	r.count[name]++
}

// combinerClosure records and then releases the combiner.
func (r *batchRecorder) combinerClosure(cc *combiner.CallCombiner, name string) *closure.Closure {
	return closure.New(name, func(ec *closure.ExecCtx, err error) {
		r.record(name, err)
		cc.Stop(ec, "finished "+name)
	})
}

// plainClosure records only, for the off-combiner path.
func (r *batchRecorder) plainClosure(name string) *closure.Closure {
	return closure.New(name, func(_ *closure.ExecCtx, err error) {
		r.record(name, err)
	})
}

func TestQueueFinishWithFailureSubsets(t *testing.T) {
	tests := []struct {
		name       string
		recvIM     bool
		recvMsg    bool
		recvTM     bool
		onComplete bool
		wantLen    int
	}{
		{name: "all", recvIM: true, recvMsg: true, recvTM: true, onComplete: true, wantLen: 4},
		{name: "recv message and on_complete", recvMsg: true, onComplete: true, wantLen: 2},
		{name: "only on_complete", onComplete: true, wantLen: 1},
		{name: "only receives", recvIM: true, recvTM: true, wantLen: 2},
		{name: "empty", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := combiner.New()
			r := newBatchRecorder()
			b := &StreamOpBatch{Payload: &StreamOpBatchPayload{}}
			if tt.recvIM {
				b.RecvInitialMetadata = true
				b.Payload.RecvInitialMetadata.Ready = r.combinerClosure(cc, "recv_initial_metadata_ready")
			}
			if tt.recvMsg {
				b.RecvMessage = true
				b.Payload.RecvMessage.Ready = r.combinerClosure(cc, "recv_message_ready")
			}
			if tt.recvTM {
				b.RecvTrailingMetadata = true
				b.Payload.RecvTrailingMetadata.Ready = r.combinerClosure(cc, "recv_trailing_metadata_ready")
			}
			if tt.onComplete {
				b.OnComplete = r.combinerClosure(cc, "on_complete")
			}

			var closures combiner.CallCombinerClosureList
			b.QueueFinishWithFailure(assert.AnError, &closures)
			assert.Equal(t, tt.wantLen, closures.Len())
			// Building the list runs nothing.
			assert.Empty(t, r.order)
		})
	}
}

func TestFinishWithFailureOrderAndDelivery(t *testing.T) {
	ec := closure.NewExecCtx()
	cc := combiner.New()
	r := newBatchRecorder()
	errWant := errors.New("connection reset")

	b := &StreamOpBatch{
		RecvInitialMetadata:  true,
		RecvMessage:          true,
		RecvTrailingMetadata: true,
		Payload:              &StreamOpBatchPayload{},
	}
	b.Payload.RecvInitialMetadata.Ready = r.combinerClosure(cc, "recv_initial_metadata_ready")
	b.Payload.RecvMessage.Ready = r.combinerClosure(cc, "recv_message_ready")
	b.Payload.RecvTrailingMetadata.Ready = r.combinerClosure(cc, "recv_trailing_metadata_ready")
	b.OnComplete = r.combinerClosure(cc, "on_complete")

	cc.Start(ec, closure.New("holder", func(ec *closure.ExecCtx, _ error) {
		b.FinishWithFailure(ec, errWant, cc)
	}), nil, "take combiner")
	ec.Flush()

	assert.Equal(t, []string{
		"recv_initial_metadata_ready",
		"recv_message_ready",
		"recv_trailing_metadata_ready",
		"on_complete",
	}, r.order)
	for name, err := range r.errs {
		assert.Equal(t, errWant, err, name)
	}
	for name, n := range r.count {
		assert.Equal(t, 1, n, name)
	}
}

func TestFinishWithFailureEmptyBatchReleasesCombiner(t *testing.T) {
	ec := closure.NewExecCtx()
	cc := combiner.New()
	r := newBatchRecorder()

	b := &StreamOpBatch{Payload: &StreamOpBatchPayload{}}
	cc.Start(ec, closure.New("holder", func(ec *closure.ExecCtx, _ error) {
		b.FinishWithFailure(ec, assert.AnError, cc)
	}), nil, "take combiner")
	cc.Start(ec, r.combinerClosure(cc, "after"), nil, "start after")
	ec.Flush()

	assert.Equal(t, []string{"after"}, r.order)
}

func TestFinishWithFailureFromTransport(t *testing.T) {
	ec := closure.NewExecCtx()
	r := newBatchRecorder()
	errWant := errors.New("goaway received")

	b := &StreamOpBatch{
		RecvMessage:          true,
		RecvTrailingMetadata: true,
		Payload:              &StreamOpBatchPayload{},
	}
	b.Payload.RecvMessage.Ready = r.plainClosure("recv_message_ready")
	b.Payload.RecvTrailingMetadata.Ready = r.plainClosure("recv_trailing_metadata_ready")
	b.OnComplete = r.plainClosure("on_complete")

	b.FinishWithFailureFromTransport(ec, errWant)
	// Runs through the exec ctx, not inline.
	assert.Empty(t, r.order)
	ec.Flush()

	assert.Equal(t, []string{
		"recv_message_ready",
		"recv_trailing_metadata_ready",
		"on_complete",
	}, r.order)
	for name, err := range r.errs {
		assert.Equal(t, errWant, err, name)
	}
}

func TestFinishWithFailureFromTransportEmptyBatch(t *testing.T) {
	ec := closure.NewExecCtx()
	b := &StreamOpBatch{Payload: &StreamOpBatchPayload{}}
	b.FinishWithFailureFromTransport(ec, assert.AnError)
	ec.Flush()
}

func TestNilReadyClosureNeverFires(t *testing.T) {
	ec := closure.NewExecCtx()
	b := &StreamOpBatch{
		RecvInitialMetadata: true,
		RecvMessage:         true,
		Payload:             &StreamOpBatchPayload{},
	}
	// Flags are set but no ready closures were supplied.
	var closures combiner.CallCombinerClosureList
	b.QueueFinishWithFailure(assert.AnError, &closures)
	assert.Equal(t, 0, closures.Len())

	b.FinishWithFailureFromTransport(ec, assert.AnError)
	ec.Flush()
}

func TestOperationError(t *testing.T) {
	plain := OperationError("stream closed", nil)
	assert.EqualError(t, plain, "stream closed")

	wrapped := OperationError("failed to write frame", ErrConnClosing)
	assert.ErrorIs(t, wrapped, ErrConnClosing)
}
