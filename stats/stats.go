// Package stats defines the observability contract a concrete transport
// reports batch lifecycle events into.
package stats

import (
	"net"
	"time"
)

// Handler receives transport stats events. A transport invokes it inline;
// implementations must be safe for concurrent use and should return quickly.
type Handler interface {
	// HandleBatch processes one batch lifecycle event.
	HandleBatch(s BatchStats)
}

// BatchStats is one batch lifecycle event.
type BatchStats interface {
	isBatchStats()
}

// BatchBegin is recorded when a transport accepts a stream op batch.
type BatchBegin struct {
	// BeginTime is the time the transport accepted the batch.
	BeginTime time.Time
	// NumOps is the number of operations the batch requests.
	NumOps int
}

func (*BatchBegin) isBatchStats() {}

// BatchEnd is recorded when the last closure of a batch has been scheduled.
type BatchEnd struct {
	// BeginTime is the time the transport accepted the batch.
	BeginTime time.Time
	// EndTime is the time the batch resolved.
	EndTime time.Time
	// Err is non-nil if the batch was failed rather than completed.
	Err error
}

func (*BatchEnd) isBatchStats() {}

// ConnBegin is recorded when a transport is established.
type ConnBegin struct {
	// RemoteAddr is the remote address of the connection, if any.
	RemoteAddr net.Addr
	// LocalAddr is the local address of the connection, if any.
	LocalAddr net.Addr
}

func (*ConnBegin) isBatchStats() {}

// ConnEnd is recorded when a transport closes.
type ConnEnd struct {
	// Err is the error the transport closed with, if any.
	Err error
}

func (*ConnEnd) isBatchStats() {}
