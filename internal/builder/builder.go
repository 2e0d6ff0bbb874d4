// Package builder provides a fluent construction surface for the messages
// this client sends: WriteEvents, DeleteStream, ReadEvent, ReadStreamEvents,
// ReadAllEvents, and the no-payload Ping/HeartbeatResponse/Authenticate
// messages. Correlation ids and event ids default to a fresh uuid.New()
// when the caller never sets one, matching the original builder's
// defaulting behavior.
package builder

import (
	"github.com/google/uuid"

	"github.com/dantte-lp/goeventstore/internal/credential"
	"github.com/dantte-lp/goeventstore/internal/frame"
	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

// Package wraps a Message together with an optional credential pair and
// correlation id into a ready-to-send frame.Frame. A nil correlationID
// generates a fresh uuid.New().
func Package(auth *credential.UsernamePassword, correlationID *uuid.UUID, msg rawmsg.Message) frame.Frame {
	id := uuid.New()
	if correlationID != nil {
		id = *correlationID
	}
	return frame.Frame{
		CorrelationID:  id,
		Authentication: auth,
		Message:        msg,
	}
}

// Ping returns the no-payload Ping message.
func Ping() rawmsg.Message { return rawmsg.Message{Kind: rawmsg.KindPing} }

// HeartbeatResponse returns the no-payload HeartbeatResponse message, sent
// in reply to the server's HeartbeatRequest.
func HeartbeatResponse() rawmsg.Message { return rawmsg.Message{Kind: rawmsg.KindHeartbeatResponse} }

// Authenticate returns the no-payload Authenticate message. The credentials
// themselves travel in the frame, not the message body.
func Authenticate() rawmsg.Message { return rawmsg.Message{Kind: rawmsg.KindAuthenticate} }

// -------------------------------------------------------------------------
// WriteEvents
// -------------------------------------------------------------------------

// WriteEventsBuilder accumulates a stream id, expected version, the
// require-master flag, and a list of events before producing a WriteEvents
// message.
type WriteEventsBuilder struct {
	streamID        string
	expectedVersion wire.ExpectedVersion
	hasVersion      bool
	requireMaster   bool
	events          []payload.NewEvent
}

// WriteEvents starts a new WriteEventsBuilder.
func WriteEvents() *WriteEventsBuilder {
	return &WriteEventsBuilder{}
}

// StreamID sets the target stream. It panics if id is empty, matching the
// original builder's assertion.
func (b *WriteEventsBuilder) StreamID(id string) *WriteEventsBuilder {
	if id == "" {
		panic("builder: stream id must not be empty")
	}
	b.streamID = id
	return b
}

// ExpectedVersion sets the optimistic-concurrency check. Defaults to
// wire.AnyVersion() when never called.
func (b *WriteEventsBuilder) ExpectedVersion(v wire.ExpectedVersion) *WriteEventsBuilder {
	b.expectedVersion = v
	b.hasVersion = true
	return b
}

// RequireMaster sets whether the server must be the cluster master to
// service this write. Defaults to false.
func (b *WriteEventsBuilder) RequireMaster(require bool) *WriteEventsBuilder {
	b.requireMaster = require
	return b
}

// NewEvent starts building one event to append to this write.
func (b *WriteEventsBuilder) NewEvent() *NewEventBuilder {
	return &NewEventBuilder{parent: b}
}

func (b *WriteEventsBuilder) pushEvent(e payload.NewEvent) {
	b.events = append(b.events, e)
}

// Build returns the accumulated WriteEvents payload.
func (b *WriteEventsBuilder) Build() payload.WriteEvents {
	version := wire.AnyVersion()
	if b.hasVersion {
		version = b.expectedVersion
	}
	return payload.WriteEvents{
		EventStreamID:   b.streamID,
		ExpectedVersion: version.Int32(),
		RequireMaster:   b.requireMaster,
		Events:          b.events,
	}
}

// BuildMessage wraps Build's result in a rawmsg.Message.
func (b *WriteEventsBuilder) BuildMessage() rawmsg.Message {
	return rawmsg.Message{Kind: rawmsg.KindWriteEvents, WriteEvents: b.Build()}
}

// NewEventBuilder accumulates one event's fields for WriteEventsBuilder.
type NewEventBuilder struct {
	parent *WriteEventsBuilder

	eventID             *uuid.UUID
	eventType           string
	dataContentType     int32
	metadataContentType int32
	data                []byte
	metadata            []byte
}

// EventID sets this event's id. Defaults to a fresh uuid.New() in Done.
func (b *NewEventBuilder) EventID(id uuid.UUID) *NewEventBuilder {
	b.eventID = &id
	return b
}

// EventType sets this event's type name.
func (b *NewEventBuilder) EventType(t string) *NewEventBuilder {
	b.eventType = t
	return b
}

// Data sets this event's payload bytes.
func (b *NewEventBuilder) Data(data []byte) *NewEventBuilder {
	b.data = data
	return b
}

// DataContentType marks the payload as JSON (true) or raw bytes (false).
func (b *NewEventBuilder) DataContentType(isJSON bool) *NewEventBuilder {
	b.dataContentType = contentTypeCode(isJSON)
	return b
}

// Metadata sets this event's optional metadata bytes.
func (b *NewEventBuilder) Metadata(metadata []byte) *NewEventBuilder {
	b.metadata = metadata
	return b
}

// MetadataContentType marks the metadata as JSON (true) or raw bytes (false).
func (b *NewEventBuilder) MetadataContentType(isJSON bool) *NewEventBuilder {
	b.metadataContentType = contentTypeCode(isJSON)
	return b
}

func contentTypeCode(isJSON bool) int32 {
	if isJSON {
		return 1
	}
	return 0
}

// Done appends the accumulated event to the parent WriteEventsBuilder and
// returns it for further chaining.
func (b *NewEventBuilder) Done() *WriteEventsBuilder {
	id := uuid.New()
	if b.eventID != nil {
		id = *b.eventID
	}
	b.parent.pushEvent(payload.NewEvent{
		EventID:             id[:],
		EventType:           b.eventType,
		DataContentType:     b.dataContentType,
		MetadataContentType: b.metadataContentType,
		Data:                b.data,
		Metadata:            b.metadata,
	})
	return b.parent
}

// Cancel discards the in-progress event and returns the parent builder
// unchanged.
func (b *NewEventBuilder) Cancel() *WriteEventsBuilder {
	return b.parent
}

// -------------------------------------------------------------------------
// DeleteStream
// -------------------------------------------------------------------------

// DeleteStreamBuilder accumulates the fields of a DeleteStream message.
type DeleteStreamBuilder struct {
	streamID        string
	expectedVersion wire.ExpectedVersion
	hasVersion      bool
	requireMaster   bool
	hardDelete      *bool
}

// DeleteStream starts a new DeleteStreamBuilder.
func DeleteStream(streamID string) *DeleteStreamBuilder {
	return &DeleteStreamBuilder{streamID: streamID}
}

// ExpectedVersion sets the optimistic-concurrency check. Defaults to
// wire.AnyVersion().
func (b *DeleteStreamBuilder) ExpectedVersion(v wire.ExpectedVersion) *DeleteStreamBuilder {
	b.expectedVersion = v
	b.hasVersion = true
	return b
}

// RequireMaster sets whether the server must be the cluster master.
func (b *DeleteStreamBuilder) RequireMaster(require bool) *DeleteStreamBuilder {
	b.requireMaster = require
	return b
}

// HardDelete marks the delete as irreversible (vs. the default soft/tombstone delete).
func (b *DeleteStreamBuilder) HardDelete(hard bool) *DeleteStreamBuilder {
	b.hardDelete = &hard
	return b
}

// Build returns the accumulated DeleteStream payload.
func (b *DeleteStreamBuilder) Build() payload.DeleteStream {
	version := wire.AnyVersion()
	if b.hasVersion {
		version = b.expectedVersion
	}
	return payload.DeleteStream{
		EventStreamID:   b.streamID,
		ExpectedVersion: version.Int32(),
		RequireMaster:   b.requireMaster,
		HardDelete:      b.hardDelete,
	}
}

// BuildMessage wraps Build's result in a rawmsg.Message.
func (b *DeleteStreamBuilder) BuildMessage() rawmsg.Message {
	return rawmsg.Message{Kind: rawmsg.KindDeleteStream, DeleteStream: b.Build()}
}

// -------------------------------------------------------------------------
// ReadEvent
// -------------------------------------------------------------------------

// ReadEventBuilder accumulates the fields of a ReadEvent message.
type ReadEventBuilder struct {
	streamID       string
	eventNumber    wire.EventNumber
	resolveLinkTos bool
	requireMaster  bool
}

// ReadEvent starts a new ReadEventBuilder targeting eventNumber in streamID.
func ReadEvent(streamID string, eventNumber wire.EventNumber) *ReadEventBuilder {
	return &ReadEventBuilder{streamID: streamID, eventNumber: eventNumber}
}

// ResolveLinkTos sets whether link events should be resolved to the event
// they point at.
func (b *ReadEventBuilder) ResolveLinkTos(resolve bool) *ReadEventBuilder {
	b.resolveLinkTos = resolve
	return b
}

// RequireMaster sets whether the server must be the cluster master.
func (b *ReadEventBuilder) RequireMaster(require bool) *ReadEventBuilder {
	b.requireMaster = require
	return b
}

// Build returns the accumulated ReadEvent payload.
func (b *ReadEventBuilder) Build() payload.ReadEvent {
	return payload.ReadEvent{
		EventStreamID:  b.streamID,
		EventNumber:    b.eventNumber.Int32(),
		ResolveLinkTos: b.resolveLinkTos,
		RequireMaster:  b.requireMaster,
	}
}

// BuildMessage wraps Build's result in a rawmsg.Message.
func (b *ReadEventBuilder) BuildMessage() rawmsg.Message {
	return rawmsg.Message{Kind: rawmsg.KindReadEvent, ReadEvent: b.Build()}
}

// -------------------------------------------------------------------------
// ReadStreamEvents
// -------------------------------------------------------------------------

// ReadStreamEventsBuilder accumulates the fields of a ReadStreamEvents
// message, including its Forward/Backward direction.
type ReadStreamEventsBuilder struct {
	streamID        string
	fromEventNumber wire.EventNumber
	maxCount        int32
	direction       wire.Direction
	resolveLinkTos  bool
	requireMaster   bool
}

// ReadStreamEventsForward starts a forward page read of streamID, beginning
// at from, returning up to maxCount events.
func ReadStreamEventsForward(streamID string, from wire.EventNumber, maxCount int32) *ReadStreamEventsBuilder {
	return &ReadStreamEventsBuilder{streamID: streamID, fromEventNumber: from, maxCount: maxCount, direction: wire.Forward}
}

// ReadStreamEventsBackward starts a backward page read of streamID,
// beginning at from, returning up to maxCount events.
func ReadStreamEventsBackward(streamID string, from wire.EventNumber, maxCount int32) *ReadStreamEventsBuilder {
	return &ReadStreamEventsBuilder{streamID: streamID, fromEventNumber: from, maxCount: maxCount, direction: wire.Backward}
}

// ResolveLinkTos sets whether link events should be resolved to the event
// they point at.
func (b *ReadStreamEventsBuilder) ResolveLinkTos(resolve bool) *ReadStreamEventsBuilder {
	b.resolveLinkTos = resolve
	return b
}

// RequireMaster sets whether the server must be the cluster master.
func (b *ReadStreamEventsBuilder) RequireMaster(require bool) *ReadStreamEventsBuilder {
	b.requireMaster = require
	return b
}

// Build returns the accumulated ReadStreamEvents payload.
func (b *ReadStreamEventsBuilder) Build() payload.ReadStreamEvents {
	return payload.ReadStreamEvents{
		EventStreamID:   b.streamID,
		FromEventNumber: b.fromEventNumber.Int32(),
		MaxCount:        b.maxCount,
		ResolveLinkTos:  b.resolveLinkTos,
		RequireMaster:   b.requireMaster,
	}
}

// BuildMessage wraps Build's result in a rawmsg.Message, carrying the
// builder's direction alongside it.
func (b *ReadStreamEventsBuilder) BuildMessage() rawmsg.Message {
	return rawmsg.Message{
		Kind:             rawmsg.KindReadStreamEvents,
		Direction:        b.direction,
		ReadStreamEvents: b.Build(),
	}
}

// -------------------------------------------------------------------------
// ReadAllEvents
// -------------------------------------------------------------------------

// ReadAllEventsBuilder accumulates the fields of a ReadAllEvents message,
// including its Forward/Backward direction.
type ReadAllEventsBuilder struct {
	position       wire.LogPosition
	maxCount       int32
	direction      wire.Direction
	resolveLinkTos bool
	requireMaster  bool
}

// ReadAllEventsForward starts a forward page read of the $all stream,
// beginning at position, returning up to maxCount events.
func ReadAllEventsForward(position wire.LogPosition, maxCount int32) *ReadAllEventsBuilder {
	return &ReadAllEventsBuilder{position: position, maxCount: maxCount, direction: wire.Forward}
}

// ReadAllEventsBackward starts a backward page read of the $all stream,
// beginning at position, returning up to maxCount events.
func ReadAllEventsBackward(position wire.LogPosition, maxCount int32) *ReadAllEventsBuilder {
	return &ReadAllEventsBuilder{position: position, maxCount: maxCount, direction: wire.Backward}
}

// ResolveLinkTos sets whether link events should be resolved to the event
// they point at.
func (b *ReadAllEventsBuilder) ResolveLinkTos(resolve bool) *ReadAllEventsBuilder {
	b.resolveLinkTos = resolve
	return b
}

// RequireMaster sets whether the server must be the cluster master.
func (b *ReadAllEventsBuilder) RequireMaster(require bool) *ReadAllEventsBuilder {
	b.requireMaster = require
	return b
}

// Build returns the accumulated ReadAllEvents payload.
func (b *ReadAllEventsBuilder) Build() payload.ReadAllEvents {
	return payload.ReadAllEvents{
		CommitPosition:  b.position.Int64(),
		PreparePosition: b.position.Int64(),
		MaxCount:        b.maxCount,
		ResolveLinkTos:  b.resolveLinkTos,
		RequireMaster:   b.requireMaster,
	}
}

// BuildMessage wraps Build's result in a rawmsg.Message, carrying the
// builder's direction alongside it.
func (b *ReadAllEventsBuilder) BuildMessage() rawmsg.Message {
	return rawmsg.Message{
		Kind:          rawmsg.KindReadAllEvents,
		Direction:     b.direction,
		ReadAllEvents: b.Build(),
	}
}
