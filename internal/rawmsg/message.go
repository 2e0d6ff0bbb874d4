// Package rawmsg decodes and encodes the raw protocol frames into RawMessage
// values: a mechanical, 1:1 mapping onto the wire with no semantic
// validation beyond what the protobuf codec itself enforces. Bugs in the
// adapted layer should never make a message unreachable, so callers that
// need to bypass internal/adapted can work with RawMessage directly.
package rawmsg

import (
	"fmt"

	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

// Kind discriminates the RawMessage variants. It is distinct from
// wire.Discriminator because ReadStreamEvents/ReadAllEvents each collapse
// two discriminators (Forward/Backward) into one Kind plus a carried
// wire.Direction.
type Kind uint8

const (
	KindHeartbeatRequest Kind = iota
	KindHeartbeatResponse
	KindPing
	KindPong

	KindWriteEvents
	KindWriteEventsCompleted

	KindDeleteStream
	KindDeleteStreamCompleted

	KindReadEvent
	KindReadEventCompleted

	KindReadStreamEvents
	KindReadStreamEventsCompleted

	KindReadAllEvents
	KindReadAllEventsCompleted

	KindBadRequest
	KindNotHandled

	KindAuthenticate
	KindAuthenticated
	KindNotAuthenticated

	// KindUnsupported holds a discriminator with no assigned meaning, plus
	// its undecoded body.
	KindUnsupported
)

// Message is the raw, 1:1-with-the-wire representation of a decoded
// message. Only the fields relevant to Kind are populated; the zero value
// of every other field is meaningless.
//
// This is a flat struct rather than an interface-per-variant because every
// RawMessage is produced and consumed in exactly one place (the frame
// codec and internal/adapted) and a flat struct keeps both call sites free
// of type switches on a generated interface.
type Message struct {
	Kind      Kind
	Direction wire.Direction

	WriteEvents          payload.WriteEvents
	WriteEventsCompleted payload.WriteEventsCompleted

	DeleteStream          payload.DeleteStream
	DeleteStreamCompleted payload.DeleteStreamCompleted

	ReadEvent          payload.ReadEvent
	ReadEventCompleted payload.ReadEventCompleted

	ReadStreamEvents          payload.ReadStreamEvents
	ReadStreamEventsCompleted payload.ReadStreamEventsCompleted

	ReadAllEvents          payload.ReadAllEvents
	ReadAllEventsCompleted payload.ReadAllEventsCompleted

	NotHandled payload.NotHandled

	// BadRequestInfo and NotAuthenticatedInfo carry an arbitrary
	// (conventionally UTF-8, never validated as such here) diagnostic
	// payload. Unsupported carries the discriminator byte and its raw body.
	BadRequestInfo      []byte
	NotAuthenticatedInfo []byte

	UnsupportedDiscriminator byte
	UnsupportedBody          []byte
}

// Discriminator returns the wire discriminator byte for m's Kind/Direction.
func (m Message) Discriminator() byte {
	switch m.Kind {
	case KindHeartbeatRequest:
		return byte(wire.HeartbeatRequest)
	case KindHeartbeatResponse:
		return byte(wire.HeartbeatResponse)
	case KindPing:
		return byte(wire.Ping)
	case KindPong:
		return byte(wire.Pong)
	case KindWriteEvents:
		return byte(wire.WriteEvents)
	case KindWriteEventsCompleted:
		return byte(wire.WriteEventsCompleted)
	case KindDeleteStream:
		return byte(wire.DeleteStream)
	case KindDeleteStreamCompleted:
		return byte(wire.DeleteStreamCompleted)
	case KindReadEvent:
		return byte(wire.ReadEvent)
	case KindReadEventCompleted:
		return byte(wire.ReadEventCompleted)
	case KindReadStreamEvents:
		if m.Direction == wire.Backward {
			return byte(wire.ReadStreamEventsBackward)
		}
		return byte(wire.ReadStreamEventsForward)
	case KindReadStreamEventsCompleted:
		if m.Direction == wire.Backward {
			return byte(wire.ReadStreamEventsCompletedBackward)
		}
		return byte(wire.ReadStreamEventsCompletedForward)
	case KindReadAllEvents:
		if m.Direction == wire.Backward {
			return byte(wire.ReadAllEventsBackward)
		}
		return byte(wire.ReadAllEventsForward)
	case KindReadAllEventsCompleted:
		if m.Direction == wire.Backward {
			return byte(wire.ReadAllEventsCompletedBackward)
		}
		return byte(wire.ReadAllEventsCompletedForward)
	case KindBadRequest:
		return byte(wire.BadRequest)
	case KindNotHandled:
		return byte(wire.NotHandled)
	case KindAuthenticate:
		return byte(wire.Authenticate)
	case KindAuthenticated:
		return byte(wire.Authenticated)
	case KindNotAuthenticated:
		return byte(wire.NotAuthenticated)
	case KindUnsupported:
		return m.UnsupportedDiscriminator
	default:
		panic(fmt.Sprintf("rawmsg: unreachable Kind %d", m.Kind))
	}
}

// Decode parses buf (the frame body following discriminator+flags+
// correlation id+credentials) as the message variant named by
// discriminator. Direction, where relevant, is derived from discriminator
// itself: Forward and Backward variants of ReadStreamEvents/ReadAllEvents
// are distinct discriminator values. Unassigned discriminator bytes decode
// successfully into KindUnsupported, carrying buf unmodified: a byte the
// current build does not recognize must never fail the whole connection.
func Decode(discriminator byte, buf []byte) (Message, error) {
	d := wire.Discriminator(discriminator)

	switch d {
	case wire.HeartbeatRequest:
		return Message{Kind: KindHeartbeatRequest}, nil
	case wire.HeartbeatResponse:
		return Message{Kind: KindHeartbeatResponse}, nil
	case wire.Ping:
		return Message{Kind: KindPing}, nil
	case wire.Pong:
		return Message{Kind: KindPong}, nil

	case wire.WriteEvents:
		var p payload.WriteEvents
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindWriteEvents, WriteEvents: p}, nil
	case wire.WriteEventsCompleted:
		var p payload.WriteEventsCompleted
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindWriteEventsCompleted, WriteEventsCompleted: p}, nil

	case wire.DeleteStream:
		var p payload.DeleteStream
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindDeleteStream, DeleteStream: p}, nil
	case wire.DeleteStreamCompleted:
		var p payload.DeleteStreamCompleted
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindDeleteStreamCompleted, DeleteStreamCompleted: p}, nil

	case wire.ReadEvent:
		var p payload.ReadEvent
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadEvent, ReadEvent: p}, nil
	case wire.ReadEventCompleted:
		var p payload.ReadEventCompleted
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadEventCompleted, ReadEventCompleted: p}, nil

	case wire.ReadStreamEventsForward, wire.ReadStreamEventsBackward:
		var p payload.ReadStreamEvents
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadStreamEvents, Direction: directionOf(d), ReadStreamEvents: p}, nil
	case wire.ReadStreamEventsCompletedForward, wire.ReadStreamEventsCompletedBackward:
		var p payload.ReadStreamEventsCompleted
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadStreamEventsCompleted, Direction: directionOf(d), ReadStreamEventsCompleted: p}, nil

	case wire.ReadAllEventsForward, wire.ReadAllEventsBackward:
		var p payload.ReadAllEvents
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadAllEvents, Direction: directionOf(d), ReadAllEvents: p}, nil
	case wire.ReadAllEventsCompletedForward, wire.ReadAllEventsCompletedBackward:
		var p payload.ReadAllEventsCompleted
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindReadAllEventsCompleted, Direction: directionOf(d), ReadAllEventsCompleted: p}, nil

	case wire.BadRequest:
		return Message{Kind: KindBadRequest, BadRequestInfo: cloneBytes(buf)}, nil
	case wire.NotHandled:
		var p payload.NotHandled
		if err := p.Decode(buf); err != nil {
			return Message{}, &payload.DecodeError{Discriminator: discriminator, Err: err}
		}
		return Message{Kind: KindNotHandled, NotHandled: p}, nil

	case wire.Authenticate:
		return Message{Kind: KindAuthenticate}, nil
	case wire.Authenticated:
		return Message{Kind: KindAuthenticated}, nil
	case wire.NotAuthenticated:
		return Message{Kind: KindNotAuthenticated, NotAuthenticatedInfo: cloneBytes(buf)}, nil

	default:
		return Message{
			Kind:                     KindUnsupported,
			UnsupportedDiscriminator: discriminator,
			UnsupportedBody:          cloneBytes(buf),
		}, nil
	}
}

// Encode returns m's protobuf body. Messages with no payload (heartbeats,
// ping/pong, Authenticate/Authenticated) encode to an empty slice.
func (m Message) Encode() []byte {
	switch m.Kind {
	case KindHeartbeatRequest, KindHeartbeatResponse, KindPing, KindPong,
		KindAuthenticate, KindAuthenticated:
		return nil
	case KindWriteEvents:
		return m.WriteEvents.Encode()
	case KindWriteEventsCompleted:
		return m.WriteEventsCompleted.Encode()
	case KindDeleteStream:
		return m.DeleteStream.Encode()
	case KindDeleteStreamCompleted:
		return m.DeleteStreamCompleted.Encode()
	case KindReadEvent:
		return m.ReadEvent.Encode()
	case KindReadEventCompleted:
		return m.ReadEventCompleted.Encode()
	case KindReadStreamEvents:
		return m.ReadStreamEvents.Encode()
	case KindReadStreamEventsCompleted:
		return m.ReadStreamEventsCompleted.Encode()
	case KindReadAllEvents:
		return m.ReadAllEvents.Encode()
	case KindReadAllEventsCompleted:
		return m.ReadAllEventsCompleted.Encode()
	case KindBadRequest:
		return m.BadRequestInfo
	case KindNotHandled:
		return m.NotHandled.Encode()
	case KindNotAuthenticated:
		return m.NotAuthenticatedInfo
	case KindUnsupported:
		return m.UnsupportedBody
	default:
		panic(fmt.Sprintf("rawmsg: unreachable Kind %d", m.Kind))
	}
}

func directionOf(d wire.Discriminator) wire.Direction {
	switch d {
	case wire.ReadStreamEventsBackward, wire.ReadStreamEventsCompletedBackward,
		wire.ReadAllEventsBackward, wire.ReadAllEventsCompletedBackward:
		return wire.Backward
	default:
		return wire.Forward
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
