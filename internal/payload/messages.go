package payload

import (
	"fmt"

	"github.com/dantte-lp/goeventstore/internal/wirepb"
	"google.golang.org/protobuf/encoding/protowire"
)

// NewEvent is the subset of EventRecord used when appending a new event.
type NewEvent struct {
	EventID             []byte
	EventType           string
	DataContentType     int32
	MetadataContentType int32
	Data                []byte
	Metadata            []byte // nil when absent
}

func (m *NewEvent) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventID = b
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventType = string(b)
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.DataContentType = int32(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.MetadataContentType = int32(v)
		case 5:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.Data = b
		case 6:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.Metadata = b
		}
		return nil
	})
}

func (m *NewEvent) Encode() []byte {
	var w wirepb.Writer
	w.Bytes(1, m.EventID)
	w.String(2, m.EventType)
	w.Int32(3, m.DataContentType)
	w.Int32(4, m.MetadataContentType)
	w.Bytes(5, m.Data)
	if m.Metadata != nil {
		w.Bytes(6, m.Metadata)
	}
	return w.Buf()
}

// EventRecord is a committed event as read back from a stream.
type EventRecord struct {
	EventStreamID       string
	EventNumber         int32
	EventID             []byte
	EventType           string
	DataContentType     int32
	MetadataContentType int32
	Data                []byte
	Metadata            []byte
	Created             *int64
	CreatedEpoch        *int64
}

func (m *EventRecord) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventStreamID = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.EventNumber = int32(v)
		case 3:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventID = b
		case 4:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventType = string(b)
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.DataContentType = int32(v)
		case 6:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.MetadataContentType = int32(v)
		case 7:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.Data = b
		case 8:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.Metadata = b
		case 9:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			c := int64(v)
			m.Created = &c
		case 10:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			c := int64(v)
			m.CreatedEpoch = &c
		}
		return nil
	})
}

func (m *EventRecord) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.EventStreamID)
	w.Int32(2, m.EventNumber)
	w.Bytes(3, m.EventID)
	w.String(4, m.EventType)
	w.Int32(5, m.DataContentType)
	w.Int32(6, m.MetadataContentType)
	w.Bytes(7, m.Data)
	if m.Metadata != nil {
		w.Bytes(8, m.Metadata)
	}
	if m.Created != nil {
		w.Int64(9, *m.Created)
	}
	if m.CreatedEpoch != nil {
		w.Int64(10, *m.CreatedEpoch)
	}
	return w.Buf()
}

// ResolvedIndexedEvent pairs an event with an optional link event used to
// resolve it (e.g. when read through a projection's index).
type ResolvedIndexedEvent struct {
	Event EventRecord
	Link  *EventRecord
}

func (m *ResolvedIndexedEvent) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			return m.Event.Decode(b)
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			var link EventRecord
			if err := link.Decode(b); err != nil {
				return err
			}
			m.Link = &link
		}
		return nil
	})
}

func (m *ResolvedIndexedEvent) Encode() []byte {
	var w wirepb.Writer
	w.Message(1, m.Event.Encode())
	if m.Link != nil {
		w.Message(2, m.Link.Encode())
	}
	return w.Buf()
}

// ResolvedEvent is ResolvedIndexedEvent plus its position in $all, as
// returned by ReadAllEvents.
type ResolvedEvent struct {
	Event           EventRecord
	Link            *EventRecord
	CommitPosition  int64
	PreparePosition int64
}

func (m *ResolvedEvent) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			return m.Event.Decode(b)
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			var link EventRecord
			if err := link.Decode(b); err != nil {
				return err
			}
			m.Link = &link
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.CommitPosition = int64(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.PreparePosition = int64(v)
		}
		return nil
	})
}

func (m *ResolvedEvent) Encode() []byte {
	var w wirepb.Writer
	w.Message(1, m.Event.Encode())
	if m.Link != nil {
		w.Message(2, m.Link.Encode())
	}
	w.Int64(3, m.CommitPosition)
	w.Int64(4, m.PreparePosition)
	return w.Buf()
}

// WriteEvents requests appending one or more events to a stream.
type WriteEvents struct {
	EventStreamID    string
	ExpectedVersion  int32
	Events           []NewEvent
	RequireMaster    bool
}

func (m *WriteEvents) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventStreamID = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ExpectedVersion = int32(v)
		case 3:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			var ev NewEvent
			if err := ev.Decode(b); err != nil {
				return err
			}
			m.Events = append(m.Events, ev)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.RequireMaster = v != 0
		}
		return nil
	})
}

func (m *WriteEvents) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.EventStreamID)
	w.Int32(2, m.ExpectedVersion)
	for i := range m.Events {
		w.Message(3, m.Events[i].Encode())
	}
	w.Bool(4, m.RequireMaster)
	return w.Buf()
}

// WriteEventsCompleted is the response to WriteEvents. FirstEventNumber and
// LastEventNumber are both inclusive on the wire.
type WriteEventsCompleted struct {
	Result            *OperationResult
	Message           *string
	FirstEventNumber  int32
	LastEventNumber   int32
	PreparePosition   *int64
	CommitPosition    *int64
}

func (m *WriteEventsCompleted) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			r := OperationResult(v)
			m.Result = &r
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.Message = &s
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.FirstEventNumber = int32(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.LastEventNumber = int32(v)
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			p := int64(v)
			m.PreparePosition = &p
		case 6:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			c := int64(v)
			m.CommitPosition = &c
		}
		return nil
	})
}

func (m *WriteEventsCompleted) Encode() []byte {
	var w wirepb.Writer
	if m.Result != nil {
		w.Int32(1, int32(*m.Result))
	}
	if m.Message != nil {
		w.String(2, *m.Message)
	}
	w.Int32(3, m.FirstEventNumber)
	w.Int32(4, m.LastEventNumber)
	if m.PreparePosition != nil {
		w.Int64(5, *m.PreparePosition)
	}
	if m.CommitPosition != nil {
		w.Int64(6, *m.CommitPosition)
	}
	return w.Buf()
}

// DeleteStream requests deletion of a stream.
type DeleteStream struct {
	EventStreamID   string
	ExpectedVersion int32
	RequireMaster   bool
	HardDelete      *bool
}

func (m *DeleteStream) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventStreamID = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ExpectedVersion = int32(v)
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.RequireMaster = v != 0
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			h := v != 0
			m.HardDelete = &h
		}
		return nil
	})
}

func (m *DeleteStream) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.EventStreamID)
	w.Int32(2, m.ExpectedVersion)
	w.Bool(3, m.RequireMaster)
	if m.HardDelete != nil {
		w.Bool(4, *m.HardDelete)
	}
	return w.Buf()
}

// DeleteStreamCompleted is the response to DeleteStream.
type DeleteStreamCompleted struct {
	Result          *OperationResult
	Message         *string
	PreparePosition *int64
	CommitPosition  *int64
}

func (m *DeleteStreamCompleted) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			r := OperationResult(v)
			m.Result = &r
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.Message = &s
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			p := int64(v)
			m.PreparePosition = &p
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			c := int64(v)
			m.CommitPosition = &c
		}
		return nil
	})
}

func (m *DeleteStreamCompleted) Encode() []byte {
	var w wirepb.Writer
	if m.Result != nil {
		w.Int32(1, int32(*m.Result))
	}
	if m.Message != nil {
		w.String(2, *m.Message)
	}
	if m.PreparePosition != nil {
		w.Int64(3, *m.PreparePosition)
	}
	if m.CommitPosition != nil {
		w.Int64(4, *m.CommitPosition)
	}
	return w.Buf()
}

// ReadEvent requests a single event from a stream.
type ReadEvent struct {
	EventStreamID   string
	EventNumber     int32
	ResolveLinkTos  bool
	RequireMaster   bool
}

func (m *ReadEvent) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventStreamID = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.EventNumber = int32(v)
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ResolveLinkTos = v != 0
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.RequireMaster = v != 0
		}
		return nil
	})
}

func (m *ReadEvent) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.EventStreamID)
	w.Int32(2, m.EventNumber)
	w.Bool(3, m.ResolveLinkTos)
	w.Bool(4, m.RequireMaster)
	return w.Buf()
}

// ReadEventCompleted is the response to ReadEvent.
type ReadEventCompleted struct {
	Result *ReadEventResult
	Event  ResolvedIndexedEvent
	Error  *string
}

func (m *ReadEventCompleted) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			r := ReadEventResult(v)
			m.Result = &r
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			return m.Event.Decode(b)
		case 3:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.Error = &s
		}
		return nil
	})
}

func (m *ReadEventCompleted) Encode() []byte {
	var w wirepb.Writer
	if m.Result != nil {
		w.Int32(1, int32(*m.Result))
	}
	w.Message(2, m.Event.Encode())
	if m.Error != nil {
		w.String(3, *m.Error)
	}
	return w.Buf()
}

// ReadStreamEvents requests a page of events from a single stream, in a
// direction carried out-of-band by the discriminator (wire.Forward /
// wire.Backward).
type ReadStreamEvents struct {
	EventStreamID   string
	FromEventNumber int32
	MaxCount        int32
	ResolveLinkTos  bool
	RequireMaster   bool
}

func (m *ReadStreamEvents) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.EventStreamID = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.FromEventNumber = int32(v)
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.MaxCount = int32(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ResolveLinkTos = v != 0
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.RequireMaster = v != 0
		}
		return nil
	})
}

func (m *ReadStreamEvents) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.EventStreamID)
	w.Int32(2, m.FromEventNumber)
	w.Int32(3, m.MaxCount)
	w.Bool(4, m.ResolveLinkTos)
	w.Bool(5, m.RequireMaster)
	return w.Buf()
}

// ReadStreamEventsCompleted is the response to ReadStreamEvents.
// NextEventNumber is -1 when reading Backward and there is no next page.
type ReadStreamEventsCompleted struct {
	Events             []ResolvedIndexedEvent
	Result             *ReadStreamResult
	NextEventNumber    int32
	LastEventNumber    int32
	IsEndOfStream      bool
	LastCommitPosition int64
	Error              *string
}

func (m *ReadStreamEventsCompleted) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			var ev ResolvedIndexedEvent
			if err := ev.Decode(b); err != nil {
				return err
			}
			m.Events = append(m.Events, ev)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			r := ReadStreamResult(v)
			m.Result = &r
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.NextEventNumber = int32(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.LastEventNumber = int32(v)
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.IsEndOfStream = v != 0
		case 6:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.LastCommitPosition = int64(v)
		case 7:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.Error = &s
		}
		return nil
	})
}

func (m *ReadStreamEventsCompleted) Encode() []byte {
	var w wirepb.Writer
	for i := range m.Events {
		w.Message(1, m.Events[i].Encode())
	}
	if m.Result != nil {
		w.Int32(2, int32(*m.Result))
	}
	w.Int32(3, m.NextEventNumber)
	w.Int32(4, m.LastEventNumber)
	w.Bool(5, m.IsEndOfStream)
	w.Int64(6, m.LastCommitPosition)
	if m.Error != nil {
		w.String(7, *m.Error)
	}
	return w.Buf()
}

// ReadAllEvents requests a page of events from the $all stream.
type ReadAllEvents struct {
	CommitPosition  int64
	PreparePosition int64
	MaxCount        int32
	ResolveLinkTos  bool
	RequireMaster   bool
}

func (m *ReadAllEvents) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.CommitPosition = int64(v)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.PreparePosition = int64(v)
		case 3:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.MaxCount = int32(v)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ResolveLinkTos = v != 0
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.RequireMaster = v != 0
		}
		return nil
	})
}

func (m *ReadAllEvents) Encode() []byte {
	var w wirepb.Writer
	w.Int64(1, m.CommitPosition)
	w.Int64(2, m.PreparePosition)
	w.Int32(3, m.MaxCount)
	w.Bool(4, m.ResolveLinkTos)
	w.Bool(5, m.RequireMaster)
	return w.Buf()
}

// ReadAllEventsCompleted is the response to ReadAllEvents. NextCommitPosition
// and NextPreparePosition are -1 sentinels when there is no next page;
// Result defaults to Success and is omitted on the wire in that case.
type ReadAllEventsCompleted struct {
	CommitPosition      int64
	PreparePosition     int64
	Events              []ResolvedEvent
	NextCommitPosition  int64
	NextPreparePosition int64
	Result              ReadAllResult
	Error               *string
}

func (m *ReadAllEventsCompleted) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.CommitPosition = int64(v)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.PreparePosition = int64(v)
		case 3:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			var ev ResolvedEvent
			if err := ev.Decode(b); err != nil {
				return err
			}
			m.Events = append(m.Events, ev)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.NextCommitPosition = int64(v)
		case 5:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.NextPreparePosition = int64(v)
		case 6:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.Result = ReadAllResult(v)
		case 7:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.Error = &s
		}
		return nil
	})
}

func (m *ReadAllEventsCompleted) Encode() []byte {
	var w wirepb.Writer
	w.Int64(1, m.CommitPosition)
	w.Int64(2, m.PreparePosition)
	for i := range m.Events {
		w.Message(3, m.Events[i].Encode())
	}
	w.Int64(4, m.NextCommitPosition)
	w.Int64(5, m.NextPreparePosition)
	if m.Result != ReadAllSuccess {
		w.Int32(6, int32(m.Result))
	}
	if m.Error != nil {
		w.String(7, *m.Error)
	}
	return w.Buf()
}

// MasterInfo describes the current master node, returned inside NotHandled
// when Reason is NotMaster.
type MasterInfo struct {
	ExternalTCPAddress        string
	ExternalTCPPort           int32
	ExternalHTTPAddress       string
	ExternalHTTPPort          int32
	ExternalSecureTCPAddress  *string
	ExternalSecureTCPPort     *int32
}

func (m *MasterInfo) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.ExternalTCPAddress = string(b)
		case 2:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ExternalTCPPort = int32(v)
		case 3:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.ExternalHTTPAddress = string(b)
		case 4:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			m.ExternalHTTPPort = int32(v)
		case 5:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			s := string(b)
			m.ExternalSecureTCPAddress = &s
		case 6:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			p := int32(v)
			m.ExternalSecureTCPPort = &p
		}
		return nil
	})
}

func (m *MasterInfo) Encode() []byte {
	var w wirepb.Writer
	w.String(1, m.ExternalTCPAddress)
	w.Int32(2, m.ExternalTCPPort)
	w.String(3, m.ExternalHTTPAddress)
	w.Int32(4, m.ExternalHTTPPort)
	if m.ExternalSecureTCPAddress != nil {
		w.String(5, *m.ExternalSecureTCPAddress)
	}
	if m.ExternalSecureTCPPort != nil {
		w.Int32(6, *m.ExternalSecureTCPPort)
	}
	return w.Buf()
}

// NotHandled is returned when the server cannot currently service a request.
// AdditionalInfo carries an encoded MasterInfo when Reason is NotMaster.
type NotHandled struct {
	Reason         *NotHandledReason
	AdditionalInfo []byte
}

func (m *NotHandled) Decode(data []byte) error {
	return wirepb.Decode(data, func(num protowire.Number, typ protowire.Type, val []byte) error {
		switch num {
		case 1:
			v, err := wirepb.DecodeVarint(val)
			if err != nil {
				return err
			}
			r := NotHandledReason(v)
			m.Reason = &r
		case 2:
			b, err := wirepb.DecodeBytes(val)
			if err != nil {
				return err
			}
			m.AdditionalInfo = b
		}
		return nil
	})
}

func (m *NotHandled) Encode() []byte {
	var w wirepb.Writer
	if m.Reason != nil {
		w.Int32(1, int32(*m.Reason))
	}
	if m.AdditionalInfo != nil {
		w.Bytes(2, m.AdditionalInfo)
	}
	return w.Buf()
}

// DecodeError wraps a payload decode failure with the discriminator of the
// message that failed to parse.
type DecodeError struct {
	Discriminator byte
	Err           error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed payload for discriminator 0x%02x: %v", e.Discriminator, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
