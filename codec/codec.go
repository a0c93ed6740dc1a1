// Package codec marshals messages into the reference-counted buffers that
// stream operation batches carry.
package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/VinnyPutty/grpc/mem"
)

// Codec serializes messages to and from BufferSlices.
type Codec interface {
	Marshal(v any) (mem.BufferSlice, error)
	Unmarshal(data mem.BufferSlice, v any) error
	Name() string
}

// DefaultCodec is the protobuf codec backed by the default buffer pool.
var DefaultCodec Codec = &protoCodec{pool: mem.DefaultBufferPool()}

type protoCodec struct {
	pool mem.BufferPool
}

// NewProtoCodec returns a protobuf Codec drawing buffers from pool.
func NewProtoCodec(pool mem.BufferPool) Codec {
	if pool == nil {
		pool = mem.DefaultBufferPool()
	}
	return &protoCodec{pool: pool}
}

func (c *protoCodec) Marshal(v any) (mem.BufferSlice, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: failed to marshal, message is %T, want proto.Message", v)
	}

	size := proto.Size(m)
	if mem.IsBelowBufferPoolingThreshold(size) {
		buf, err := proto.Marshal(m)
		if err != nil {
			return nil, err
		}
		return mem.BufferSlice{mem.SliceBuffer(buf)}, nil
	}

	pooled := c.pool.Get(size)
	buf, err := (proto.MarshalOptions{}).MarshalAppend((*pooled)[:0], m)
	if err != nil {
		c.pool.Put(pooled)
		return nil, err
	}
	*pooled = buf
	return mem.BufferSlice{mem.NewBuffer(pooled, c.pool)}, nil
}

func (c *protoCodec) Unmarshal(data mem.BufferSlice, v any) error {
	m, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("codec: failed to unmarshal, message is %T, want proto.Message", v)
	}

	buf := data.MaterializeToBuffer(c.pool)
	defer buf.Free()
	return proto.Unmarshal(buf.ReadOnlyData(), m)
}

func (c *protoCodec) Name() string { return "proto" }
