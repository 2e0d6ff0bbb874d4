package wire

import "math"

// -------------------------------------------------------------------------
// StreamVersion
// -------------------------------------------------------------------------

// StreamVersion is an event-count-like index into a single stream: the wire
// repr is i32 and the valid domain is 0 .. math.MaxInt32-1 inclusive;
// math.MaxInt32 itself is rejected.
type StreamVersion int32

// StreamVersionMax is the largest valid StreamVersion wire value.
const StreamVersionMax int32 = math.MaxInt32 - 1

// NewStreamVersion validates v and constructs a StreamVersion, or returns a
// *RangeError naming the offending wire value.
func NewStreamVersion(v int32) (StreamVersion, error) {
	if v < 0 || v > StreamVersionMax {
		return 0, rangeErr("StreamVersion", int64(v))
	}
	return StreamVersion(v), nil
}

// Int32 converts back to the wire integer infallibly.
func (v StreamVersion) Int32() int32 { return int32(v) }

// -------------------------------------------------------------------------
// EventNumber
// -------------------------------------------------------------------------

// EventNumberKind discriminates the three EventNumber variants.
type EventNumberKind uint8

const (
	// EventNumberFirst is the wire value 0.
	EventNumberFirst EventNumberKind = iota
	// EventNumberExact wraps a StreamVersion.
	EventNumberExact
	// EventNumberLast is the wire sentinel -1.
	EventNumberLast
)

// EventNumber is First (0), Exact(StreamVersion), or Last (-1).
type EventNumber struct {
	kind  EventNumberKind
	exact StreamVersion
}

// First returns the EventNumber::First variant.
func First() EventNumber { return EventNumber{kind: EventNumberFirst} }

// Last returns the EventNumber::Last variant.
func Last() EventNumber { return EventNumber{kind: EventNumberLast} }

// ExactEventNumber wraps a StreamVersion as EventNumber::Exact.
func ExactEventNumber(v StreamVersion) EventNumber {
	return EventNumber{kind: EventNumberExact, exact: v}
}

// EventNumberFromInt32 validates v against the wire encoding (0 => First,
// -1 => Last, everything else must be a valid StreamVersion) and returns a
// *RangeError for out-of-domain negative values other than -1.
func EventNumberFromInt32(v int32) (EventNumber, error) {
	switch {
	case v == 0:
		return First(), nil
	case v == -1:
		return Last(), nil
	case v > 0:
		sv, err := NewStreamVersion(v)
		if err != nil {
			return EventNumber{}, err
		}
		return ExactEventNumber(sv), nil
	default:
		return EventNumber{}, rangeErr("EventNumber", int64(v))
	}
}

// EventNumberFromInt32Opt is the `from_i32_opt` constructor: the wire
// sentinel -1 means "no such value" in this context (e.g. ReadStreamEvents'
// next_page field) and converts to nil rather than Last.
func EventNumberFromInt32Opt(v int32) (*EventNumber, error) {
	if v == -1 {
		return nil, nil
	}
	en, err := EventNumberFromInt32(v)
	if err != nil {
		return nil, err
	}
	return &en, nil
}

// Kind reports which variant this EventNumber holds.
func (e EventNumber) Kind() EventNumberKind { return e.kind }

// Exact returns the wrapped StreamVersion and true when Kind is
// EventNumberExact; otherwise it returns the zero value and false.
func (e EventNumber) Exact() (StreamVersion, bool) {
	if e.kind != EventNumberExact {
		return 0, false
	}
	return e.exact, true
}

// Int32 converts back to the wire integer infallibly.
func (e EventNumber) Int32() int32 {
	switch e.kind {
	case EventNumberFirst:
		return 0
	case EventNumberLast:
		return -1
	default:
		return e.exact.Int32()
	}
}

// -------------------------------------------------------------------------
// ExpectedVersion
// -------------------------------------------------------------------------

// ExpectedVersionKind discriminates the three ExpectedVersion variants.
type ExpectedVersionKind uint8

const (
	// ExpectedVersionAny is the wire value -2: no optimistic-concurrency check.
	ExpectedVersionAny ExpectedVersionKind = iota
	// ExpectedVersionNoStream is the wire value -1: the stream must not exist yet.
	ExpectedVersionNoStream
	// ExpectedVersionExact wraps a StreamVersion.
	ExpectedVersionExact
)

// ExpectedVersion is the optimistic-locking mode for a write: Any (-2),
// NoStream (-1), or Exact(StreamVersion).
type ExpectedVersion struct {
	kind  ExpectedVersionKind
	exact StreamVersion
}

// AnyVersion returns the ExpectedVersion::Any variant.
func AnyVersion() ExpectedVersion { return ExpectedVersion{kind: ExpectedVersionAny} }

// NoStreamVersion returns the ExpectedVersion::NoStream variant.
func NoStreamVersion() ExpectedVersion { return ExpectedVersion{kind: ExpectedVersionNoStream} }

// ExactExpectedVersion wraps a StreamVersion as ExpectedVersion::Exact.
func ExactExpectedVersion(v StreamVersion) ExpectedVersion {
	return ExpectedVersion{kind: ExpectedVersionExact, exact: v}
}

// ExpectedVersionFromInt32 validates v against the wire encoding.
func ExpectedVersionFromInt32(v int32) (ExpectedVersion, error) {
	switch {
	case v == -2:
		return AnyVersion(), nil
	case v == -1:
		return NoStreamVersion(), nil
	case v >= 0:
		sv, err := NewStreamVersion(v)
		if err != nil {
			return ExpectedVersion{}, err
		}
		return ExactExpectedVersion(sv), nil
	default:
		return ExpectedVersion{}, rangeErr("ExpectedVersion", int64(v))
	}
}

// Kind reports which variant this ExpectedVersion holds.
func (e ExpectedVersion) Kind() ExpectedVersionKind { return e.kind }

// Exact returns the wrapped StreamVersion and true when Kind is
// ExpectedVersionExact; otherwise it returns the zero value and false.
func (e ExpectedVersion) Exact() (StreamVersion, bool) {
	if e.kind != ExpectedVersionExact {
		return 0, false
	}
	return e.exact, true
}

// Int32 converts back to the wire integer infallibly.
func (e ExpectedVersion) Int32() int32 {
	switch e.kind {
	case ExpectedVersionAny:
		return -2
	case ExpectedVersionNoStream:
		return -1
	default:
		return e.exact.Int32()
	}
}

// -------------------------------------------------------------------------
// LogPosition
// -------------------------------------------------------------------------

// LogPositionKind discriminates the three LogPosition variants.
type LogPositionKind uint8

const (
	// LogPositionFirst is the wire value 0.
	LogPositionFirst LogPositionKind = iota
	// LogPositionExact wraps a validated 0 < x <= math.MaxInt64 offset into $all.
	LogPositionExact
	// LogPositionLast is the wire sentinel -1.
	LogPositionLast
)

// LogPosition indexes into the $all stream: First (0), Exact(x) with
// 0 < x <= math.MaxInt64, or Last (-1).
type LogPosition struct {
	kind  LogPositionKind
	exact uint64
}

// FirstPosition returns the LogPosition::First variant.
func FirstPosition() LogPosition { return LogPosition{kind: LogPositionFirst} }

// LastPosition returns the LogPosition::Last variant.
func LastPosition() LogPosition { return LogPosition{kind: LogPositionLast} }

// ExactPosition wraps x as LogPosition::Exact. Callers must have already
// validated 0 < x <= math.MaxInt64; use LogPositionFromInt64 for validated
// construction from a wire value.
func ExactPosition(x uint64) LogPosition { return LogPosition{kind: LogPositionExact, exact: x} }

// LogPositionFromInt64 validates v against the wire encoding (0 => First,
// -1 => Last, positive => Exact).
func LogPositionFromInt64(v int64) (LogPosition, error) {
	switch {
	case v == 0:
		return FirstPosition(), nil
	case v == -1:
		return LastPosition(), nil
	case v > 0:
		return ExactPosition(uint64(v)), nil
	default:
		return LogPosition{}, rangeErr("LogPosition", v)
	}
}

// LogPositionFromInt64Opt is the `from_i64_opt` constructor: the wire
// sentinel -1 means "no such value" in this context (e.g.
// ReadAllEventsCompleted's next_commit_position/next_prepare_position) and
// converts to nil rather than Last.
func LogPositionFromInt64Opt(v int64) (*LogPosition, error) {
	if v == -1 {
		return nil, nil
	}
	lp, err := LogPositionFromInt64(v)
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

// Kind reports which variant this LogPosition holds.
func (p LogPosition) Kind() LogPositionKind { return p.kind }

// Exact returns the wrapped offset and true when Kind is LogPositionExact;
// otherwise it returns 0 and false.
func (p LogPosition) Exact() (uint64, bool) {
	if p.kind != LogPositionExact {
		return 0, false
	}
	return p.exact, true
}

// Int64 converts back to the wire integer infallibly.
func (p LogPosition) Int64() int64 {
	switch p.kind {
	case LogPositionFirst:
		return 0
	case LogPositionLast:
		return -1
	default:
		return int64(p.exact) //nolint:gosec // validated 0 < x <= math.MaxInt64 at construction
	}
}
