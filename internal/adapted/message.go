// Package adapted validates and re-shapes rawmsg.Message into a typed API:
// every *Completed message's result code is lifted into either a concrete
// success struct or a typed failure value, so callers match on Go types
// instead of re-checking an OperationResult by hand on every call site.
// DeleteStream and DeleteStreamCompleted have no adapted form: TryAdapt
// rejects them with ErrUnsupportedDiscriminator.
//
// Adapting is fallible (a server could send a *Completed message with its
// result field unset); going back from adapted to raw never is, which is
// the round-trip law this package exists to uphold:
// TryAdapt(m.AsRaw()) == (m, nil) for every in-domain m.
package adapted

import (
	"fmt"
	"unicode/utf8"

	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

// Kind discriminates the Message variants. It mirrors rawmsg.Kind one-to-one
// except BadRequest/NotHandled/NotAuthenticated, whose payloads are
// replaced by validated Go types.
type Kind = rawmsg.Kind

const (
	KindHeartbeatRequest  = rawmsg.KindHeartbeatRequest
	KindHeartbeatResponse = rawmsg.KindHeartbeatResponse
	KindPing              = rawmsg.KindPing
	KindPong              = rawmsg.KindPong

	KindWriteEvents          = rawmsg.KindWriteEvents
	KindWriteEventsCompleted = rawmsg.KindWriteEventsCompleted

	KindReadEvent          = rawmsg.KindReadEvent
	KindReadEventCompleted = rawmsg.KindReadEventCompleted

	KindReadStreamEvents          = rawmsg.KindReadStreamEvents
	KindReadStreamEventsCompleted = rawmsg.KindReadStreamEventsCompleted

	KindReadAllEvents          = rawmsg.KindReadAllEvents
	KindReadAllEventsCompleted = rawmsg.KindReadAllEventsCompleted

	KindBadRequest   = rawmsg.KindBadRequest
	KindNotHandled   = rawmsg.KindNotHandled

	KindAuthenticate    = rawmsg.KindAuthenticate
	KindAuthenticated   = rawmsg.KindAuthenticated
	KindNotAuthenticated = rawmsg.KindNotAuthenticated
)

// WriteEventsCompleted is the success case of a WriteEvents response.
type WriteEventsCompleted struct {
	FirstEventNumber wire.StreamVersion
	LastEventNumber  wire.StreamVersion
	PreparePosition  *wire.LogPosition
	CommitPosition   *wire.LogPosition
}

// ReadStreamCompleted is the success case of a ReadStreamEvents response.
type ReadStreamCompleted struct {
	Events             []payload.ResolvedIndexedEvent
	NextPage           *wire.EventNumber
	LastEventNumber    wire.StreamVersion
	EndOfStream        bool
	LastCommitPosition int64
}

// ReadAllCompleted is the success case of a ReadAllEvents response.
type ReadAllCompleted struct {
	CommitPosition      wire.LogPosition
	PreparePosition     wire.LogPosition
	Events              []payload.ResolvedEvent
	NextCommitPosition  *wire.LogPosition
	NextPreparePosition *wire.LogPosition
}

// NotHandledInfo is the validated NotHandled payload. Master is populated
// only when Reason is payload.NotMaster and AdditionalInfo decodes as a
// MasterInfo message; a NotMaster reason whose AdditionalInfo fails to
// decode still adapts successfully with Master left nil, since the reason
// code alone is actionable.
type NotHandledInfo struct {
	Reason payload.NotHandledReason
	Master *payload.MasterInfo
}

// Message is the validated, semantically-typed counterpart to
// rawmsg.Message.
type Message struct {
	Kind      Kind
	Direction wire.Direction

	WriteEvents payload.WriteEvents

	WriteEventsOK  *WriteEventsCompleted
	WriteEventsErr *WriteEventsFailure

	ReadEvent payload.ReadEvent

	ReadEventOK  *payload.ResolvedIndexedEvent
	ReadEventErr *ReadEventFailure

	ReadStreamEvents payload.ReadStreamEvents

	ReadStreamOK  *ReadStreamCompleted
	ReadStreamErr *ReadStreamFailure

	ReadAllEvents payload.ReadAllEvents

	ReadAllOK  *ReadAllCompleted
	ReadAllErr *ReadAllFailure

	BadRequestInfo       string
	NotHandled           NotHandledInfo
	NotAuthenticatedInfo string
}

// TryAdapt validates raw and lifts it into Message. On failure it returns a
// *ConversionError wrapping raw so the caller can still inspect or forward
// the original wire message.
func TryAdapt(raw rawmsg.Message) (Message, error) {
	switch raw.Kind {
	case rawmsg.KindHeartbeatRequest, rawmsg.KindHeartbeatResponse,
		rawmsg.KindPing, rawmsg.KindPong,
		rawmsg.KindAuthenticate, rawmsg.KindAuthenticated:
		return Message{Kind: raw.Kind}, nil

	case rawmsg.KindWriteEvents:
		return Message{Kind: raw.Kind, WriteEvents: raw.WriteEvents}, nil

	case rawmsg.KindWriteEventsCompleted:
		return adaptWriteEventsCompleted(raw)

	case rawmsg.KindReadEvent:
		return Message{Kind: raw.Kind, ReadEvent: raw.ReadEvent}, nil

	case rawmsg.KindReadEventCompleted:
		return adaptReadEventCompleted(raw)

	case rawmsg.KindReadStreamEvents:
		return Message{Kind: raw.Kind, Direction: raw.Direction, ReadStreamEvents: raw.ReadStreamEvents}, nil

	case rawmsg.KindReadStreamEventsCompleted:
		return adaptReadStreamEventsCompleted(raw)

	case rawmsg.KindReadAllEvents:
		return Message{Kind: raw.Kind, Direction: raw.Direction, ReadAllEvents: raw.ReadAllEvents}, nil

	case rawmsg.KindReadAllEventsCompleted:
		return adaptReadAllEventsCompleted(raw)

	case rawmsg.KindBadRequest:
		if !utf8.Valid(raw.BadRequestInfo) {
			return Message{}, &ConversionError{Raw: raw, Err: ErrInvalidUTF8}
		}
		return Message{Kind: raw.Kind, BadRequestInfo: string(raw.BadRequestInfo)}, nil

	case rawmsg.KindNotHandled:
		return adaptNotHandled(raw)

	case rawmsg.KindNotAuthenticated:
		if !utf8.Valid(raw.NotAuthenticatedInfo) {
			return Message{}, &ConversionError{Raw: raw, Err: ErrInvalidUTF8}
		}
		return Message{Kind: raw.Kind, NotAuthenticatedInfo: string(raw.NotAuthenticatedInfo)}, nil

	default:
		return Message{}, &ConversionError{Raw: raw, Err: fmt.Errorf("%w: 0x%02x", ErrUnsupportedDiscriminator, raw.Discriminator())}
	}
}

func adaptWriteEventsCompleted(raw rawmsg.Message) (Message, error) {
	m := raw.WriteEventsCompleted
	if m.Result == nil {
		return Message{}, &ConversionError{Raw: raw, Err: ErrMissingResult}
	}

	if *m.Result == payload.ResultSuccess {
		first, err := wire.NewStreamVersion(m.FirstEventNumber)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}
		// The wire pair is an inclusive [first, last] range; the domain
		// range is half-open, so the end is shifted by one here and back
		// by one in AsRaw.
		last, err := wire.NewStreamVersion(m.LastEventNumber + 1)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}
		ok := &WriteEventsCompleted{FirstEventNumber: first, LastEventNumber: last}
		if m.PreparePosition != nil {
			lp, err := wire.LogPositionFromInt64(*m.PreparePosition)
			if err != nil {
				return Message{}, &ConversionError{Raw: raw, Err: err}
			}
			ok.PreparePosition = &lp
		}
		if m.CommitPosition != nil {
			lp, err := wire.LogPositionFromInt64(*m.CommitPosition)
			if err != nil {
				return Message{}, &ConversionError{Raw: raw, Err: err}
			}
			ok.CommitPosition = &lp
		}
		return Message{Kind: raw.Kind, WriteEventsOK: ok}, nil
	}

	failure, err := writeEventsFailureFromResult(*m.Result)
	if err != nil {
		return Message{}, &ConversionError{Raw: raw, Err: err}
	}
	return Message{Kind: raw.Kind, WriteEventsErr: &failure}, nil
}

// AsRawPayload converts a WriteEventsFailure into the WriteEventsCompleted
// wire shape the server would have sent.
func (f WriteEventsFailure) AsRawPayload() payload.WriteEventsCompleted {
	res := f.toResult()
	return payload.WriteEventsCompleted{
		Result:           &res,
		FirstEventNumber: -1,
		LastEventNumber:  -1,
	}
}

func adaptReadEventCompleted(raw rawmsg.Message) (Message, error) {
	m := raw.ReadEventCompleted
	if m.Result == nil {
		return Message{}, &ConversionError{Raw: raw, Err: ErrMissingResult}
	}

	if *m.Result == payload.ReadEventSuccess {
		event := m.Event
		return Message{Kind: raw.Kind, ReadEventOK: &event}, nil
	}

	failure, err := readEventFailureFromResult(*m.Result, m.Error)
	if err != nil {
		return Message{}, &ConversionError{Raw: raw, Err: err}
	}
	return Message{Kind: raw.Kind, ReadEventErr: &failure}, nil
}

// AsRawPayload converts a ReadEventFailure into the ReadEventCompleted wire
// shape the server would have sent; the Event field is zeroed, matching how
// the server itself leaves it empty on failure.
func (f ReadEventFailure) AsRawPayload() payload.ReadEventCompleted {
	res, msg := f.toResult()
	return payload.ReadEventCompleted{Result: &res, Error: msg}
}

func adaptReadStreamEventsCompleted(raw rawmsg.Message) (Message, error) {
	m := raw.ReadStreamEventsCompleted
	if m.Result == nil {
		return Message{}, &ConversionError{Raw: raw, Err: ErrMissingResult}
	}

	if *m.Result == payload.ReadStreamSuccess {
		var nextPage *wire.EventNumber
		if !(raw.Direction == wire.Backward && m.NextEventNumber < 0) {
			en, err := wire.EventNumberFromInt32(m.NextEventNumber)
			if err != nil {
				return Message{}, &ConversionError{Raw: raw, Err: err}
			}
			nextPage = &en
		}

		last, err := wire.NewStreamVersion(m.LastEventNumber)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}

		ok := &ReadStreamCompleted{
			Events:             m.Events,
			NextPage:           nextPage,
			LastEventNumber:    last,
			EndOfStream:        m.IsEndOfStream,
			LastCommitPosition: m.LastCommitPosition,
		}
		return Message{Kind: raw.Kind, Direction: raw.Direction, ReadStreamOK: ok}, nil
	}

	failure, err := readStreamFailureFromResult(*m.Result, m.Error)
	if err != nil {
		return Message{}, &ConversionError{Raw: raw, Err: err}
	}
	return Message{Kind: raw.Kind, Direction: raw.Direction, ReadStreamErr: &failure}, nil
}

// AsRawPayload converts a ReadStreamFailure into the
// ReadStreamEventsCompleted wire shape the server would have sent.
func (f ReadStreamFailure) AsRawPayload() payload.ReadStreamEventsCompleted {
	res, msg := f.toResult()
	return payload.ReadStreamEventsCompleted{
		Result:          &res,
		NextEventNumber: -1,
		LastEventNumber: -1,
		Error:           msg,
	}
}

func adaptReadAllEventsCompleted(raw rawmsg.Message) (Message, error) {
	m := raw.ReadAllEventsCompleted

	if m.Result == payload.ReadAllSuccess {
		commit, err := wire.LogPositionFromInt64(m.CommitPosition)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}
		prepare, err := wire.LogPositionFromInt64(m.PreparePosition)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}
		nextCommit, err := wire.LogPositionFromInt64Opt(m.NextCommitPosition)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}
		nextPrepare, err := wire.LogPositionFromInt64Opt(m.NextPreparePosition)
		if err != nil {
			return Message{}, &ConversionError{Raw: raw, Err: err}
		}

		ok := &ReadAllCompleted{
			CommitPosition:      commit,
			PreparePosition:     prepare,
			Events:              m.Events,
			NextCommitPosition:  nextCommit,
			NextPreparePosition: nextPrepare,
		}
		return Message{Kind: raw.Kind, Direction: raw.Direction, ReadAllOK: ok}, nil
	}

	failure, err := readAllFailureFromResult(m.Result, m.Error)
	if err != nil {
		return Message{}, &ConversionError{Raw: raw, Err: err}
	}
	return Message{Kind: raw.Kind, Direction: raw.Direction, ReadAllErr: &failure}, nil
}

// AsRawPayload converts a ReadAllFailure into the ReadAllEventsCompleted
// wire shape the server would have sent.
func (f ReadAllFailure) AsRawPayload() payload.ReadAllEventsCompleted {
	res, msg := f.toResult()
	return payload.ReadAllEventsCompleted{
		NextCommitPosition:  -1,
		NextPreparePosition: -1,
		Result:              res,
		Error:                msg,
	}
}

func adaptNotHandled(raw rawmsg.Message) (Message, error) {
	m := raw.NotHandled
	if m.Reason == nil {
		return Message{}, &ConversionError{Raw: raw, Err: ErrMissingResult}
	}

	info := NotHandledInfo{Reason: *m.Reason}
	if *m.Reason == payload.NotMaster && len(m.AdditionalInfo) > 0 {
		var master payload.MasterInfo
		if err := master.Decode(m.AdditionalInfo); err == nil {
			info.Master = &master
		}
	}
	return Message{Kind: raw.Kind, NotHandled: info}, nil
}

// AsRaw converts m back to its wire-level representation. Unlike TryAdapt
// this never fails: every Message was either built directly from a
// successful TryAdapt or constructed in-process by code that already
// satisfies the invariants TryAdapt checks.
func (m Message) AsRaw() rawmsg.Message {
	switch m.Kind {
	case rawmsg.KindHeartbeatRequest, rawmsg.KindHeartbeatResponse,
		rawmsg.KindPing, rawmsg.KindPong,
		rawmsg.KindAuthenticate, rawmsg.KindAuthenticated:
		return rawmsg.Message{Kind: m.Kind}

	case rawmsg.KindWriteEvents:
		return rawmsg.Message{Kind: m.Kind, WriteEvents: m.WriteEvents}

	case rawmsg.KindWriteEventsCompleted:
		if m.WriteEventsOK != nil {
			ok := m.WriteEventsOK
			res := payload.ResultSuccess
			p := payload.WriteEventsCompleted{
				Result:           &res,
				FirstEventNumber: ok.FirstEventNumber.Int32(),
				LastEventNumber:  ok.LastEventNumber.Int32() - 1,
			}
			if ok.PreparePosition != nil {
				v := ok.PreparePosition.Int64()
				p.PreparePosition = &v
			}
			if ok.CommitPosition != nil {
				v := ok.CommitPosition.Int64()
				p.CommitPosition = &v
			}
			return rawmsg.Message{Kind: m.Kind, WriteEventsCompleted: p}
		}
		if m.WriteEventsErr != nil {
			return rawmsg.Message{Kind: m.Kind, WriteEventsCompleted: m.WriteEventsErr.AsRawPayload()}
		}
		panic("adapted: WriteEventsCompleted message has neither a success nor a WriteEventsFailure")

	case rawmsg.KindReadEvent:
		return rawmsg.Message{Kind: m.Kind, ReadEvent: m.ReadEvent}

	case rawmsg.KindReadEventCompleted:
		if m.ReadEventOK != nil {
			res := payload.ReadEventSuccess
			return rawmsg.Message{Kind: m.Kind, ReadEventCompleted: payload.ReadEventCompleted{
				Result: &res,
				Event:  *m.ReadEventOK,
			}}
		}
		return rawmsg.Message{Kind: m.Kind, ReadEventCompleted: m.ReadEventErr.AsRawPayload()}

	case rawmsg.KindReadStreamEvents:
		return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadStreamEvents: m.ReadStreamEvents}

	case rawmsg.KindReadStreamEventsCompleted:
		if m.ReadStreamOK != nil {
			ok := m.ReadStreamOK
			res := payload.ReadStreamSuccess
			next := int32(-1)
			if ok.NextPage != nil {
				next = ok.NextPage.Int32()
			}
			return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadStreamEventsCompleted: payload.ReadStreamEventsCompleted{
				Events:             ok.Events,
				Result:             &res,
				NextEventNumber:    next,
				LastEventNumber:    ok.LastEventNumber.Int32(),
				IsEndOfStream:      ok.EndOfStream,
				LastCommitPosition: ok.LastCommitPosition,
			}}
		}
		return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadStreamEventsCompleted: m.ReadStreamErr.AsRawPayload()}

	case rawmsg.KindReadAllEvents:
		return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadAllEvents: m.ReadAllEvents}

	case rawmsg.KindReadAllEventsCompleted:
		if m.ReadAllOK != nil {
			ok := m.ReadAllOK
			nextCommit := int64(-1)
			if ok.NextCommitPosition != nil {
				nextCommit = ok.NextCommitPosition.Int64()
			}
			nextPrepare := int64(-1)
			if ok.NextPreparePosition != nil {
				nextPrepare = ok.NextPreparePosition.Int64()
			}
			return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadAllEventsCompleted: payload.ReadAllEventsCompleted{
				CommitPosition:      ok.CommitPosition.Int64(),
				PreparePosition:     ok.PreparePosition.Int64(),
				Events:              ok.Events,
				NextCommitPosition:  nextCommit,
				NextPreparePosition: nextPrepare,
				Result:              payload.ReadAllSuccess,
			}}
		}
		return rawmsg.Message{Kind: m.Kind, Direction: m.Direction, ReadAllEventsCompleted: m.ReadAllErr.AsRawPayload()}

	case rawmsg.KindBadRequest:
		return rawmsg.Message{Kind: m.Kind, BadRequestInfo: []byte(m.BadRequestInfo)}

	case rawmsg.KindNotHandled:
		p := payload.NotHandled{Reason: &m.NotHandled.Reason}
		if m.NotHandled.Master != nil {
			p.AdditionalInfo = m.NotHandled.Master.Encode()
		}
		return rawmsg.Message{Kind: m.Kind, NotHandled: p}

	case rawmsg.KindNotAuthenticated:
		return rawmsg.Message{Kind: m.Kind, NotAuthenticatedInfo: []byte(m.NotAuthenticatedInfo)}

	default:
		panic(fmt.Sprintf("adapted: unreachable Kind %d", m.Kind))
	}
}
