// Package payload holds the hand-authored, generated-style reader/writer for
// every protobuf message body the EventStore TCP protocol carries. There is
// no .proto source for this schema in the retrieval pack, so each type below
// is written the way protoc-gen-go output would look, built directly on
// internal/wirepb's protowire-based primitives.
package payload

import "fmt"

// OperationResult is the shared result code for WriteEventsCompleted and
// DeleteStreamCompleted.
type OperationResult int32

const (
	ResultSuccess              OperationResult = 0
	ResultPrepareTimeout       OperationResult = 1
	ResultCommitTimeout        OperationResult = 2
	ResultForwardTimeout       OperationResult = 3
	ResultWrongExpectedVersion OperationResult = 4
	ResultStreamDeleted        OperationResult = 5
	ResultInvalidTransaction   OperationResult = 6
	ResultAccessDenied         OperationResult = 7
)

func (r OperationResult) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultPrepareTimeout:
		return "PrepareTimeout"
	case ResultCommitTimeout:
		return "CommitTimeout"
	case ResultForwardTimeout:
		return "ForwardTimeout"
	case ResultWrongExpectedVersion:
		return "WrongExpectedVersion"
	case ResultStreamDeleted:
		return "StreamDeleted"
	case ResultInvalidTransaction:
		return "InvalidTransaction"
	case ResultAccessDenied:
		return "AccessDenied"
	default:
		return fmt.Sprintf("OperationResult(%d)", int32(r))
	}
}

// ReadEventResult is ReadEventCompleted's result code.
type ReadEventResult int32

const (
	ReadEventSuccess      ReadEventResult = 0
	ReadEventNotFound     ReadEventResult = 1
	ReadEventNoStream     ReadEventResult = 2
	ReadEventStreamDeleted ReadEventResult = 3
	ReadEventError        ReadEventResult = 4
	ReadEventAccessDenied ReadEventResult = 5
)

func (r ReadEventResult) String() string {
	switch r {
	case ReadEventSuccess:
		return "Success"
	case ReadEventNotFound:
		return "NotFound"
	case ReadEventNoStream:
		return "NoStream"
	case ReadEventStreamDeleted:
		return "StreamDeleted"
	case ReadEventError:
		return "Error"
	case ReadEventAccessDenied:
		return "AccessDenied"
	default:
		return fmt.Sprintf("ReadEventResult(%d)", int32(r))
	}
}

// ReadStreamResult is ReadStreamEventsCompleted's result code.
type ReadStreamResult int32

const (
	ReadStreamSuccess       ReadStreamResult = 0
	ReadStreamNoStream      ReadStreamResult = 1
	ReadStreamStreamDeleted ReadStreamResult = 2
	ReadStreamNotModified   ReadStreamResult = 3
	ReadStreamError         ReadStreamResult = 4
	ReadStreamAccessDenied  ReadStreamResult = 5
)

func (r ReadStreamResult) String() string {
	switch r {
	case ReadStreamSuccess:
		return "Success"
	case ReadStreamNoStream:
		return "NoStream"
	case ReadStreamStreamDeleted:
		return "StreamDeleted"
	case ReadStreamNotModified:
		return "NotModified"
	case ReadStreamError:
		return "Error"
	case ReadStreamAccessDenied:
		return "AccessDenied"
	default:
		return fmt.Sprintf("ReadStreamResult(%d)", int32(r))
	}
}

// ReadAllResult is ReadAllEventsCompleted's result code.
type ReadAllResult int32

const (
	ReadAllSuccess      ReadAllResult = 0
	ReadAllNotModified  ReadAllResult = 1
	ReadAllError        ReadAllResult = 2
	ReadAllAccessDenied ReadAllResult = 3
)

func (r ReadAllResult) String() string {
	switch r {
	case ReadAllSuccess:
		return "Success"
	case ReadAllNotModified:
		return "NotModified"
	case ReadAllError:
		return "Error"
	case ReadAllAccessDenied:
		return "AccessDenied"
	default:
		return fmt.Sprintf("ReadAllResult(%d)", int32(r))
	}
}

// NotHandledReason is NotHandled's reason code.
type NotHandledReason int32

const (
	NotReady  NotHandledReason = 0
	TooBusy   NotHandledReason = 1
	NotMaster NotHandledReason = 2
)

func (r NotHandledReason) String() string {
	switch r {
	case NotReady:
		return "NotReady"
	case TooBusy:
		return "TooBusy"
	case NotMaster:
		return "NotMaster"
	default:
		return fmt.Sprintf("NotHandledReason(%d)", int32(r))
	}
}
