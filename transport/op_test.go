package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VinnyPutty/grpc/closure"
)

func TestMakeTransportOpForwardsInner(t *testing.T) {
	ec := closure.NewExecCtx()
	errWant := errors.New("ping failed")
	var got error
	fired := 0
	inner := closure.New("inner", func(_ *closure.ExecCtx, err error) {
		fired++
		got = err
	})

	op := MakeTransportOp(inner)
	require.NotNil(t, op.OnConsumed)

	// The transport consumes the op.
	ec.Run(op.OnConsumed, errWant)
	ec.Flush()

	assert.Equal(t, 1, fired)
	assert.Equal(t, errWant, got)
}

func TestMakeTransportOpNilInner(t *testing.T) {
	ec := closure.NewExecCtx()
	op := MakeTransportOp(nil)
	require.NotNil(t, op.OnConsumed)
	ec.Run(op.OnConsumed, assert.AnError)
	ec.Flush()
}

func TestMakeStreamOpBatchForwardsInner(t *testing.T) {
	ec := closure.NewExecCtx()
	errWant := errors.New("cancelled")
	var got error
	fired := 0
	inner := closure.New("inner", func(_ *closure.ExecCtx, err error) {
		fired++
		got = err
	})

	b := MakeStreamOpBatch(inner)
	require.NotNil(t, b.Payload)
	require.NotNil(t, b.OnComplete)

	ec.Run(b.OnComplete, errWant)
	ec.Flush()

	assert.Equal(t, 1, fired)
	assert.Equal(t, errWant, got)
}

func TestMakeStreamOpBatchNilInner(t *testing.T) {
	ec := closure.NewExecCtx()
	b := MakeStreamOpBatch(nil)
	ec.Run(b.OnComplete, nil)
	ec.Flush()
}

func TestMakeStreamOpBatchCarriesCancel(t *testing.T) {
	b := MakeStreamOpBatch(nil)
	b.Cancel = true
	b.Payload.Cancel.Err = ErrStreamCancelled
	assert.Equal(t, ErrStreamCancelled, b.Payload.Cancel.Err)
}
