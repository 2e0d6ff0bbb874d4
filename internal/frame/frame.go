// Package frame decodes and encodes the outer TCP frame: a length-prefixed
// envelope carrying a discriminator, a flags byte, a correlation id, an
// optional credential pair, and a rawmsg payload body.
//
// Decode implements an incremental-decode contract suitable for a
// streaming reader: it never blocks waiting for more bytes and never
// panics on a short buffer, so a caller can feed it whatever has arrived
// on the socket so far and retry once more bytes land.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dantte-lp/goeventstore/internal/credential"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
)

// lengthPrefixSize is the u32 LE byte count prefix, not itself counted in
// the length it carries.
const lengthPrefixSize = 4

// headerSize is discriminator(1) + flags(1) + correlation id(16): the
// minimum a frame's declared length may be, with no credentials and no
// payload.
const headerSize = 1 + 1 + 16

// MinFrameLen is the smallest legal value of the length field.
const MinFrameLen = headerSize

// TcpFlags is the one-byte flag field following the discriminator.
type TcpFlags uint8

const (
	// FlagNone marks a frame carrying no optional fields.
	FlagNone TcpFlags = 0x00
	// FlagAuthenticated marks a frame whose correlation id is followed by
	// a length-prefixed credential pair.
	FlagAuthenticated TcpFlags = 0x01

	knownFlags = FlagAuthenticated
)

// ErrFrameTooShort is returned when the length field names a value smaller
// than MinFrameLen: no legal frame can declare less than a discriminator,
// flags byte, and correlation id.
var ErrFrameTooShort = errors.New("frame: declared length is smaller than the minimum frame header")

// ErrInvalidFlags is returned when the flags byte sets a bit this build
// does not recognize.
var ErrInvalidFlags = errors.New("frame: unrecognized flag bits set")

// Frame is one decoded TCP envelope.
type Frame struct {
	CorrelationID  uuid.UUID
	Authentication *credential.UsernamePassword
	Message        rawmsg.Message
}

// Decode attempts to parse a single Frame from the head of buf.
//
// It returns (frame, consumed, nil) on success, where consumed is the
// number of bytes of buf the frame occupied. It returns (nil, 0, nil) when
// buf does not yet hold a complete frame — the caller should read more and
// retry. It returns a non-nil error only for a malformed frame (an invalid
// length field or flags byte, or a payload codec error); the connection
// should be abandoned in that case.
//
// Decode tolerates trailing bytes within the frame's declared length that
// the payload codec did not consume: the next frame always starts at
// 4+length regardless of how many bytes Decode's payload step actually
// read.
func Decode(buf []byte) (*Frame, int, error) {
	if len(buf) < lengthPrefixSize {
		return nil, 0, nil
	}

	length := int(binary.LittleEndian.Uint32(buf[:lengthPrefixSize]))
	if length < MinFrameLen {
		return nil, 0, fmt.Errorf("%w: %d", ErrFrameTooShort, length)
	}

	total := lengthPrefixSize + length
	if len(buf) < total {
		return nil, 0, nil
	}

	body := buf[lengthPrefixSize:total]

	discriminator := body[0]
	flagsByte := body[1]
	flags := TcpFlags(flagsByte)
	if flags&^knownFlags != 0 {
		return nil, 0, fmt.Errorf("%w: 0x%02x", ErrInvalidFlags, flagsByte)
	}

	correlationID, err := uuid.FromBytes(body[2:18])
	if err != nil {
		return nil, 0, fmt.Errorf("frame: correlation id: %w", err)
	}

	pos := 18
	var auth *credential.UsernamePassword
	if flags&FlagAuthenticated != 0 {
		r := bytes.NewReader(body[pos:])
		up, err := credential.Decode(r)
		if err != nil {
			return nil, 0, fmt.Errorf("frame: credentials: %w", err)
		}
		auth = &up
		pos += len(body[pos:]) - r.Len()
	}

	msg, err := rawmsg.Decode(discriminator, body[pos:])
	if err != nil {
		return nil, 0, fmt.Errorf("frame: payload: %w", err)
	}

	return &Frame{
		CorrelationID:  correlationID,
		Authentication: auth,
		Message:        msg,
	}, total, nil
}

// Encode appends f's wire representation to dst and returns the result.
func Encode(dst []byte, f Frame) []byte {
	var body bytes.Buffer
	body.WriteByte(f.Message.Discriminator())

	flags := FlagNone
	if f.Authentication != nil {
		flags |= FlagAuthenticated
	}
	body.WriteByte(byte(flags))

	idBytes, _ := f.CorrelationID.MarshalBinary()
	body.Write(idBytes)

	if f.Authentication != nil {
		// Encode never fails here: Authentication is only ever constructed
		// through credential.New, which already enforces the length limit.
		_, _ = f.Authentication.Encode(&body)
	}

	body.Write(f.Message.Encode())

	var lenBuf [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(body.Len()))

	dst = append(dst, lenBuf[:]...)
	dst = append(dst, body.Bytes()...)
	return dst
}
