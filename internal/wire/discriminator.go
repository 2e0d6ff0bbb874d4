package wire

import "fmt"

// Discriminator is the one-byte tag identifying a message variant on the
// wire (§3 message taxonomy). Assignments are fixed forever; a byte with no
// assignment below is preserved as Unsupported at the raw layer.
type Discriminator uint8

const (
	HeartbeatRequest  Discriminator = 0x01
	HeartbeatResponse Discriminator = 0x02
	Ping              Discriminator = 0x03
	Pong              Discriminator = 0x04

	WriteEvents          Discriminator = 0x82
	WriteEventsCompleted Discriminator = 0x83

	DeleteStream          Discriminator = 0x8A
	DeleteStreamCompleted Discriminator = 0x8B

	ReadEvent          Discriminator = 0xB0
	ReadEventCompleted Discriminator = 0xB1

	ReadStreamEventsForward           Discriminator = 0xB2
	ReadStreamEventsCompletedForward  Discriminator = 0xB3
	ReadStreamEventsBackward          Discriminator = 0xB4
	ReadStreamEventsCompletedBackward Discriminator = 0xB5

	ReadAllEventsForward           Discriminator = 0xB6
	ReadAllEventsCompletedForward  Discriminator = 0xB7
	ReadAllEventsBackward          Discriminator = 0xB8
	ReadAllEventsCompletedBackward Discriminator = 0xB9

	BadRequest Discriminator = 0xF0
	NotHandled Discriminator = 0xF1

	Authenticate    Discriminator = 0xF2
	Authenticated   Discriminator = 0xF3
	NotAuthenticated Discriminator = 0xF4
)

// discriminatorNames maps the assigned discriminators to a human-readable
// name for logging; unassigned bytes fall through to the default format.
var discriminatorNames = map[Discriminator]string{
	HeartbeatRequest:  "HeartbeatRequest",
	HeartbeatResponse: "HeartbeatResponse",
	Ping:              "Ping",
	Pong:              "Pong",

	WriteEvents:          "WriteEvents",
	WriteEventsCompleted: "WriteEventsCompleted",

	DeleteStream:          "DeleteStream",
	DeleteStreamCompleted: "DeleteStreamCompleted",

	ReadEvent:          "ReadEvent",
	ReadEventCompleted: "ReadEventCompleted",

	ReadStreamEventsForward:           "ReadStreamEvents(Forward)",
	ReadStreamEventsCompletedForward:  "ReadStreamEventsCompleted(Forward)",
	ReadStreamEventsBackward:          "ReadStreamEvents(Backward)",
	ReadStreamEventsCompletedBackward: "ReadStreamEventsCompleted(Backward)",

	ReadAllEventsForward:           "ReadAllEvents(Forward)",
	ReadAllEventsCompletedForward:  "ReadAllEventsCompleted(Forward)",
	ReadAllEventsBackward:          "ReadAllEvents(Backward)",
	ReadAllEventsCompletedBackward: "ReadAllEventsCompleted(Backward)",

	BadRequest: "BadRequest",
	NotHandled: "NotHandled",

	Authenticate:     "Authenticate",
	Authenticated:    "Authenticated",
	NotAuthenticated: "NotAuthenticated",
}

// String returns the human-readable name for the discriminator, or
// "Unsupported(0xNN)" for a byte with no assignment.
func (d Discriminator) String() string {
	if name, ok := discriminatorNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Unsupported(0x%02x)", uint8(d))
}

// Known reports whether d has an assigned meaning in the taxonomy.
func (d Discriminator) Known() bool {
	_, ok := discriminatorNames[d]
	return ok
}

// Direction distinguishes the Forward/Backward pagination variants that
// share one logical message shape across two discriminators (ReadStream/
// ReadAll). It is carried out-of-band on the raw variant and is always
// derivable from the discriminator.
type Direction uint8

const (
	// Forward reads from the given position towards increasing event numbers.
	Forward Direction = iota
	// Backward reads from the given position towards decreasing event numbers.
	Backward
)

// String returns "Forward" or "Backward".
func (d Direction) String() string {
	if d == Backward {
		return "Backward"
	}
	return "Forward"
}
