// Package wire holds the fixed-width semantic integer types used throughout
// the EventStore TCP protocol (stream version, event number, expected
// version, log position) along with the discriminator byte assignments for
// the message taxonomy (§3 of the protocol data model).
package wire
