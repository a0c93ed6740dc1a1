package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrConnClosing indicates the transport is shutting down and pending
	// batches will not complete.
	ErrConnClosing = errors.New("transport: connection closing")

	// ErrStreamCancelled indicates the stream was cancelled by the call
	// layer; in-flight batches are failed with it.
	ErrStreamCancelled = errors.New("transport: stream cancelled")
)

// OperationError builds the generic failure value delivered to a batch's
// closures: a description plus an optional wrapped cause. This layer never
// interprets the value; it only guarantees delivery.
func OperationError(desc string, cause error) error {
	if cause == nil {
		return errors.New(desc)
	}
	return fmt.Errorf("%s: %w", desc, cause)
}
