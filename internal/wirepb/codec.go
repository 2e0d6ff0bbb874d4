// Package wirepb supplies the low-level varint/length-delimited primitives
// that the hand-authored, generated-style message readers and writers in
// package payload build on. No .proto sources for the EventStore TCP
// protocol were available to generate from, so every message type in
// package payload is written by hand against these primitives, the way
// protoc-gen-go output would look, instead of against protoreflect.
package wirepb

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated indicates the buffer ended in the middle of a tag or value.
var ErrTruncated = errors.New("wirepb: truncated message")

// FieldFunc handles one decoded field. val holds exactly the encoded value
// bytes for the field (tag already consumed); callers extract the concrete
// value with the matching protowire.Consume* helper.
type FieldFunc func(num protowire.Number, typ protowire.Type, val []byte) error

// Decode walks b field by field, invoking fn for each one in wire order.
// Unknown field numbers are the caller's concern: fn may simply ignore them,
// which is the standard protobuf forward-compatibility behavior.
func Decode(b []byte, fn FieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ErrTruncated
		}
		rest := b[n:]

		m := protowire.ConsumeFieldValue(num, typ, rest)
		if m < 0 {
			return ErrTruncated
		}

		if err := fn(num, typ, rest[:m]); err != nil {
			return err
		}
		b = rest[m:]
	}
	return nil
}

// DecodeVarint extracts a varint-encoded field value produced by Decode.
func DecodeVarint(val []byte) (uint64, error) {
	v, n := protowire.ConsumeVarint(val)
	if n < 0 {
		return 0, ErrTruncated
	}
	return v, nil
}

// DecodeBytes extracts a length-delimited field value (bytes or string)
// produced by Decode.
func DecodeBytes(val []byte) ([]byte, error) {
	v, n := protowire.ConsumeBytes(val)
	if n < 0 {
		return nil, ErrTruncated
	}
	return v, nil
}

// Writer accumulates the encoded bytes of one protobuf message. The zero
// value is ready to use.
type Writer struct {
	buf []byte
}

// Buf returns the accumulated encoded message.
func (w *Writer) Buf() []byte { return w.buf }

// Int32 appends a plain (non-zigzag) int32 field: negative values sign-extend
// to a 64-bit varint, matching protoc's encoding for an `int32` field (as
// opposed to `sint32`). This is the encoding the protocol's wire integers use
// for sentinels such as -1 and -2.
func (w *Writer) Int32(num protowire.Number, v int32) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, uint64(int64(v)))
}

// Int64 appends a plain int64 field.
func (w *Writer) Int64(num protowire.Number, v int64) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, uint64(v))
}

// Uint64 appends a plain uint64 field.
func (w *Writer) Uint64(num protowire.Number, v uint64) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
}

// Bool appends a bool field.
func (w *Writer) Bool(num protowire.Number, v bool) {
	var i uint64
	if v {
		i = 1
	}
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, i)
}

// Bytes appends a length-delimited bytes field.
func (w *Writer) Bytes(num protowire.Number, v []byte) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, v)
}

// String appends a length-delimited string field.
func (w *Writer) String(num protowire.Number, v string) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendString(w.buf, v)
}

// Message appends v as an embedded length-delimited message field.
func (w *Writer) Message(num protowire.Number, v []byte) {
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, v)
}
