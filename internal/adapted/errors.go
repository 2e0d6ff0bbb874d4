package adapted

import (
	"errors"
	"fmt"

	"github.com/dantte-lp/goeventstore/internal/rawmsg"
)

// ErrMissingResult is returned when a *Completed message arrives with its
// required result field unset. The server is expected to always set it;
// seeing this means the connection is talking to something that doesn't
// speak the protocol correctly.
var ErrMissingResult = errors.New("adapted: completed message is missing its result field")

// ErrInvalidTransaction is returned for WriteEventsCompleted's
// OperationResult_InvalidTransaction, which has no corresponding
// WriteEventsFailure variant: transactions are not part of this protocol
// surface, so a server returning this result indicates a bug on its side
// that callers should not attempt to recover from automatically.
var ErrInvalidTransaction = errors.New("adapted: server reported InvalidTransaction, which this client cannot interpret")

// ErrUnsupportedDiscriminator is returned when TryAdapt sees a raw message
// with no adapted form: a discriminator with no assigned meaning in the
// taxonomy, or a DeleteStream or DeleteStreamCompleted message, which this
// package does not adapt.
var ErrUnsupportedDiscriminator = errors.New("adapted: unsupported discriminator")

// ErrInvalidUTF8 is returned when a wire field documented as a UTF-8 string
// (BadRequest/NotAuthenticated info text) contains bytes that do not decode
// as valid UTF-8.
var ErrInvalidUTF8 = errors.New("adapted: field is not valid UTF-8")

// ConversionError wraps a raw message that failed to adapt, together with
// the underlying cause, so a caller that still needs the wire-level message
// (e.g. to log it or forward it unmodified) can recover it.
type ConversionError struct {
	Raw rawmsg.Message
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("adapted: cannot convert %s: %v", kindName(e.Raw), e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func kindName(m rawmsg.Message) string {
	if m.Kind == rawmsg.KindUnsupported {
		return fmt.Sprintf("unsupported discriminator 0x%02x", m.UnsupportedDiscriminator)
	}
	return fmt.Sprintf("kind %d", m.Kind)
}
