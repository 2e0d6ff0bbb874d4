package adapted

import (
	"fmt"

	"github.com/dantte-lp/goeventstore/internal/payload"
)

// WriteEventsFailure is the non-success projection of payload.OperationResult
// for a WriteEvents request. OperationResult_InvalidTransaction has no
// corresponding variant: it surfaces as ErrInvalidTransaction instead, since
// this client never issues transactions.
type WriteEventsFailure int32

const (
	WriteEventsPrepareTimeout WriteEventsFailure = iota
	WriteEventsCommitTimeout
	WriteEventsForwardTimeout
	WriteEventsWrongExpectedVersion
	WriteEventsStreamDeleted
	WriteEventsAccessDenied
)

func (f WriteEventsFailure) String() string {
	switch f {
	case WriteEventsPrepareTimeout:
		return "PrepareTimeout"
	case WriteEventsCommitTimeout:
		return "CommitTimeout"
	case WriteEventsForwardTimeout:
		return "ForwardTimeout"
	case WriteEventsWrongExpectedVersion:
		return "WrongExpectedVersion"
	case WriteEventsStreamDeleted:
		return "StreamDeleted"
	case WriteEventsAccessDenied:
		return "AccessDenied"
	default:
		return fmt.Sprintf("WriteEventsFailure(%d)", int32(f))
	}
}

// Error satisfies the error interface so a WriteEventsFailure can be
// returned and wrapped like any other error.
func (f WriteEventsFailure) Error() string {
	switch f {
	case WriteEventsPrepareTimeout, WriteEventsCommitTimeout:
		return "internal server timeout, should be retried"
	case WriteEventsForwardTimeout:
		return "server timed out while awaiting response to forwarded request, should be retried"
	case WriteEventsWrongExpectedVersion:
		return "stream version was not expected, optimistic locking failure"
	case WriteEventsStreamDeleted:
		return "stream had been deleted"
	case WriteEventsAccessDenied:
		return "access to stream was denied"
	default:
		return f.String()
	}
}

// IsTransient reports whether retrying the same write might succeed.
func (f WriteEventsFailure) IsTransient() bool {
	switch f {
	case WriteEventsPrepareTimeout, WriteEventsCommitTimeout, WriteEventsForwardTimeout:
		return true
	default:
		return false
	}
}

func writeEventsFailureFromResult(r payload.OperationResult) (WriteEventsFailure, error) {
	switch r {
	case payload.ResultPrepareTimeout:
		return WriteEventsPrepareTimeout, nil
	case payload.ResultCommitTimeout:
		return WriteEventsCommitTimeout, nil
	case payload.ResultForwardTimeout:
		return WriteEventsForwardTimeout, nil
	case payload.ResultWrongExpectedVersion:
		return WriteEventsWrongExpectedVersion, nil
	case payload.ResultStreamDeleted:
		return WriteEventsStreamDeleted, nil
	case payload.ResultAccessDenied:
		return WriteEventsAccessDenied, nil
	case payload.ResultInvalidTransaction:
		return 0, ErrInvalidTransaction
	default:
		return 0, fmt.Errorf("adapted: unexpected OperationResult %s for WriteEvents", r)
	}
}

func (f WriteEventsFailure) toResult() payload.OperationResult {
	switch f {
	case WriteEventsPrepareTimeout:
		return payload.ResultPrepareTimeout
	case WriteEventsCommitTimeout:
		return payload.ResultCommitTimeout
	case WriteEventsForwardTimeout:
		return payload.ResultForwardTimeout
	case WriteEventsWrongExpectedVersion:
		return payload.ResultWrongExpectedVersion
	case WriteEventsStreamDeleted:
		return payload.ResultStreamDeleted
	default:
		return payload.ResultAccessDenied
	}
}

// -------------------------------------------------------------------------
// ReadEventFailure
// -------------------------------------------------------------------------

// ReadEventFailureKind discriminates the ReadEventFailure variants.
type ReadEventFailureKind int32

const (
	ReadEventNotFound ReadEventFailureKind = iota
	ReadEventNoStream
	ReadEventStreamDeleted
	ReadEventOtherError
	ReadEventAccessDenied
)

// ReadEventFailure is the non-success projection of payload.ReadEventResult.
// Message is only meaningful when Kind is ReadEventOtherError.
type ReadEventFailure struct {
	Kind    ReadEventFailureKind
	Message *string
}

func (f ReadEventFailure) Error() string {
	switch f.Kind {
	case ReadEventNotFound:
		return "event not found"
	case ReadEventNoStream:
		return "no such stream"
	case ReadEventStreamDeleted:
		return "stream has been deleted"
	case ReadEventAccessDenied:
		return "access denied"
	default:
		if f.Message != nil {
			return "read error: " + *f.Message
		}
		return "read error"
	}
}

func readEventFailureFromResult(r payload.ReadEventResult, msg *string) (ReadEventFailure, error) {
	switch r {
	case payload.ReadEventNotFound:
		return ReadEventFailure{Kind: ReadEventNotFound}, nil
	case payload.ReadEventNoStream:
		return ReadEventFailure{Kind: ReadEventNoStream}, nil
	case payload.ReadEventStreamDeleted:
		return ReadEventFailure{Kind: ReadEventStreamDeleted}, nil
	case payload.ReadEventError:
		return ReadEventFailure{Kind: ReadEventOtherError, Message: msg}, nil
	case payload.ReadEventAccessDenied:
		return ReadEventFailure{Kind: ReadEventAccessDenied}, nil
	default:
		return ReadEventFailure{}, fmt.Errorf("adapted: unexpected ReadEventResult %s", r)
	}
}

func (f ReadEventFailure) toResult() (payload.ReadEventResult, *string) {
	switch f.Kind {
	case ReadEventNotFound:
		return payload.ReadEventNotFound, nil
	case ReadEventNoStream:
		return payload.ReadEventNoStream, nil
	case ReadEventStreamDeleted:
		return payload.ReadEventStreamDeleted, nil
	case ReadEventAccessDenied:
		return payload.ReadEventAccessDenied, nil
	default:
		return payload.ReadEventError, f.Message
	}
}

// -------------------------------------------------------------------------
// ReadStreamFailure
// -------------------------------------------------------------------------

// ReadStreamFailureKind discriminates the ReadStreamFailure variants.
type ReadStreamFailureKind int32

const (
	ReadStreamNoStream ReadStreamFailureKind = iota
	ReadStreamStreamDeleted
	ReadStreamNotModified
	ReadStreamOtherError
	ReadStreamAccessDenied
)

// ReadStreamFailure is the non-success projection of payload.ReadStreamResult.
type ReadStreamFailure struct {
	Kind    ReadStreamFailureKind
	Message *string
}

func (f ReadStreamFailure) Error() string {
	switch f.Kind {
	case ReadStreamNoStream:
		return "no such stream"
	case ReadStreamStreamDeleted:
		return "stream has been deleted"
	case ReadStreamNotModified:
		return "not modified"
	case ReadStreamAccessDenied:
		return "access denied"
	default:
		if f.Message != nil {
			return "read error: " + *f.Message
		}
		return "read error"
	}
}

func readStreamFailureFromResult(r payload.ReadStreamResult, msg *string) (ReadStreamFailure, error) {
	switch r {
	case payload.ReadStreamNoStream:
		return ReadStreamFailure{Kind: ReadStreamNoStream}, nil
	case payload.ReadStreamStreamDeleted:
		return ReadStreamFailure{Kind: ReadStreamStreamDeleted}, nil
	case payload.ReadStreamNotModified:
		return ReadStreamFailure{Kind: ReadStreamNotModified}, nil
	case payload.ReadStreamError:
		return ReadStreamFailure{Kind: ReadStreamOtherError, Message: msg}, nil
	case payload.ReadStreamAccessDenied:
		return ReadStreamFailure{Kind: ReadStreamAccessDenied}, nil
	default:
		return ReadStreamFailure{}, fmt.Errorf("adapted: unexpected ReadStreamResult %s", r)
	}
}

func (f ReadStreamFailure) toResult() (payload.ReadStreamResult, *string) {
	switch f.Kind {
	case ReadStreamNoStream:
		return payload.ReadStreamNoStream, nil
	case ReadStreamStreamDeleted:
		return payload.ReadStreamStreamDeleted, nil
	case ReadStreamNotModified:
		return payload.ReadStreamNotModified, nil
	case ReadStreamAccessDenied:
		return payload.ReadStreamAccessDenied, nil
	default:
		return payload.ReadStreamError, f.Message
	}
}

// -------------------------------------------------------------------------
// ReadAllFailure
// -------------------------------------------------------------------------

// ReadAllFailureKind discriminates the ReadAllFailure variants.
type ReadAllFailureKind int32

const (
	ReadAllNotModified ReadAllFailureKind = iota
	ReadAllOtherError
	ReadAllAccessDenied
)

// ReadAllFailure is the non-success projection of payload.ReadAllResult.
type ReadAllFailure struct {
	Kind    ReadAllFailureKind
	Message *string
}

func (f ReadAllFailure) Error() string {
	switch f.Kind {
	case ReadAllNotModified:
		return "not modified"
	case ReadAllAccessDenied:
		return "access denied"
	default:
		if f.Message != nil {
			return "read error: " + *f.Message
		}
		return "read error"
	}
}

func readAllFailureFromResult(r payload.ReadAllResult, msg *string) (ReadAllFailure, error) {
	switch r {
	case payload.ReadAllNotModified:
		return ReadAllFailure{Kind: ReadAllNotModified}, nil
	case payload.ReadAllError:
		return ReadAllFailure{Kind: ReadAllOtherError, Message: msg}, nil
	case payload.ReadAllAccessDenied:
		return ReadAllFailure{Kind: ReadAllAccessDenied}, nil
	default:
		return ReadAllFailure{}, fmt.Errorf("adapted: unexpected ReadAllResult %s", r)
	}
}

func (f ReadAllFailure) toResult() (payload.ReadAllResult, *string) {
	switch f.Kind {
	case ReadAllNotModified:
		return payload.ReadAllNotModified, nil
	case ReadAllAccessDenied:
		return payload.ReadAllAccessDenied, nil
	default:
		return payload.ReadAllError, f.Message
	}
}
