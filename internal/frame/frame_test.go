package frame_test

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"

	"github.com/dantte-lp/goeventstore/internal/credential"
	"github.com/dantte-lp/goeventstore/internal/frame"
	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

func TestDecodePing(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "1200000003007b50a1b034b9224e8f9d708c394fab2d")
	f, n, err := frame.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f == nil {
		t.Fatal("Decode: expected a frame, got nil")
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if f.Message.Kind != rawmsg.KindPing {
		t.Fatalf("Kind = %v, want KindPing", f.Message.Kind)
	}
	want := uuid.MustParse("7b50a1b0-34b9-224e-8f9d-708c394fab2d")
	if f.CorrelationID != want {
		t.Fatalf("CorrelationID = %v, want %v", f.CorrelationID, want)
	}
	if f.Authentication != nil {
		t.Fatalf("Authentication = %+v, want nil", f.Authentication)
	}
}

func TestDecodePingWithJunk(t *testing.T) {
	t.Parallel()

	// One extra zero byte inside the declared length, after the payload
	// that itself consumes zero bytes: the frame boundary is set by the
	// length field, not by how much the payload codec reads.
	buf := mustHex(t, "1300000003007b50a1b034b9224e8f9d708c394fab2d00")
	f, n, err := frame.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if f.Message.Kind != rawmsg.KindPing {
		t.Fatalf("Kind = %v, want KindPing", f.Message.Kind)
	}
}

func TestEncodePing(t *testing.T) {
	t.Parallel()

	want := mustHex(t, "1200000003007b50a1b034b9224e8f9d708c394fab2d")
	f := frame.Frame{
		CorrelationID: uuid.MustParse("7b50a1b0-34b9-224e-8f9d-708c394fab2d"),
		Message:       rawmsg.Message{Kind: rawmsg.KindPing},
	}
	got := frame.Encode(nil, f)
	if string(got) != string(want) {
		t.Fatalf("Encode() = %x, want %x", got, want)
	}
}

func TestDecodeUnknownDiscriminator(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "12000000ff007b50a1b034b9224e8f9d708c394fab2d")
	f, _, err := frame.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Message.Kind != rawmsg.KindUnsupported {
		t.Fatalf("Kind = %v, want KindUnsupported", f.Message.Kind)
	}
	if f.Message.UnsupportedDiscriminator != 0xff {
		t.Fatalf("UnsupportedDiscriminator = 0x%02x, want 0xff", f.Message.UnsupportedDiscriminator)
	}
	if len(f.Message.UnsupportedBody) != 0 {
		t.Fatalf("UnsupportedBody = %x, want empty", f.Message.UnsupportedBody)
	}
}

func TestDecodeWriteEventsCompleted(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "2200000083009b59d8734e9fd84eb8a421f2666a3aa40800181e20272884d6bc563084d6bc56")
	f, n, err := frame.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed = %d, want %d", n, len(buf))
	}
	if f.Message.Kind != rawmsg.KindWriteEventsCompleted {
		t.Fatalf("Kind = %v, want KindWriteEventsCompleted", f.Message.Kind)
	}

	p := f.Message.WriteEventsCompleted
	if p.Result == nil || *p.Result != payload.ResultSuccess {
		t.Fatalf("Result = %v, want Success", p.Result)
	}
	if p.FirstEventNumber != 30 || p.LastEventNumber != 39 {
		t.Fatalf("event numbers = %d/%d, want 30/39", p.FirstEventNumber, p.LastEventNumber)
	}
	if p.PreparePosition == nil || *p.PreparePosition != 181349124 {
		t.Fatalf("PreparePosition = %v, want 181349124", p.PreparePosition)
	}
	if p.CommitPosition == nil || *p.CommitPosition != 181349124 {
		t.Fatalf("CommitPosition = %v, want 181349124", p.CommitPosition)
	}

	wantID := uuid.MustParse("9b59d873-4e9f-d84e-b8a4-21f2666a3aa4")
	if f.CorrelationID != wantID {
		t.Fatalf("CorrelationID = %v, want %v", f.CorrelationID, wantID)
	}
}

func TestEncodeWriteEventsCompleted(t *testing.T) {
	t.Parallel()

	want := mustHex(t, "2200000083009b59d8734e9fd84eb8a421f2666a3aa40800181e20272884d6bc563084d6bc56")

	res := payload.ResultSuccess
	prep := int64(181349124)
	commit := int64(181349124)
	f := frame.Frame{
		CorrelationID: uuid.MustParse("9b59d873-4e9f-d84e-b8a4-21f2666a3aa4"),
		Message: rawmsg.Message{
			Kind: rawmsg.KindWriteEventsCompleted,
			WriteEventsCompleted: payload.WriteEventsCompleted{
				Result:           &res,
				FirstEventNumber: 30,
				LastEventNumber:  39,
				PreparePosition:  &prep,
				CommitPosition:   &commit,
			},
		},
	}
	got := frame.Encode(nil, f)
	if string(got) != string(want) {
		t.Fatalf("Encode() = %x, want %x", got, want)
	}
}

func TestEncodeDecodeAuthenticatedFrame(t *testing.T) {
	t.Parallel()

	up, err := credential.New("foobar", "abbacd")
	if err != nil {
		t.Fatalf("credential.New: %v", err)
	}
	id := uuid.New()
	want := frame.Frame{
		CorrelationID:  id,
		Authentication: &up,
		Message:        rawmsg.Message{Kind: rawmsg.KindPing},
	}

	encoded := frame.Encode(nil, want)
	got, n, err := frame.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed = %d, want %d", n, len(encoded))
	}
	if got.CorrelationID != want.CorrelationID {
		t.Fatalf("CorrelationID = %v, want %v", got.CorrelationID, want.CorrelationID)
	}
	if got.Authentication == nil || *got.Authentication != up {
		t.Fatalf("Authentication = %+v, want %+v", got.Authentication, up)
	}
	if got.Message.Kind != rawmsg.KindPing {
		t.Fatalf("Kind = %v, want KindPing", got.Message.Kind)
	}
}

func TestDecodePartialBufferConsumesNothing(t *testing.T) {
	t.Parallel()

	full := mustHex(t, "2200000083009b59d8734e9fd84eb8a421f2666a3aa40800181e20272884d6bc563084d6bc56")

	for length := 1; length < len(full)-1; length++ {
		partial := full[:length]
		f, n, err := frame.Decode(partial)
		if err != nil {
			t.Fatalf("Decode(len=%d): unexpected error %v", length, err)
		}
		if f != nil {
			t.Fatalf("Decode(len=%d): expected nil frame, got %+v", length, f)
		}
		if n != 0 {
			t.Fatalf("Decode(len=%d): consumed = %d, want 0", length, n)
		}
	}
}

func TestDecodeOversizedBufferConsumesExactly(t *testing.T) {
	t.Parallel()

	full := mustHex(t, "1200000003007b50a1b034b9224e8f9d708c394fab2d")
	oversized := append(append([]byte{}, full...), make([]byte, len(full))...)

	f, n, err := frame.Decode(oversized)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(full) {
		t.Fatalf("consumed = %d, want %d", n, len(full))
	}
	if f.Message.Kind != rawmsg.KindPing {
		t.Fatalf("Kind = %v, want KindPing", f.Message.Kind)
	}
}

func TestDecodeRejectsLengthBelowMinimum(t *testing.T) {
	t.Parallel()

	var buf [4]byte
	buf[0] = 17 // one less than MinFrameLen
	_, _, err := frame.Decode(buf[:])
	if err == nil {
		t.Fatal("expected an error for a too-short declared length")
	}
}

func TestDecodeRejectsUnknownFlags(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "1200000003fe7b50a1b034b9224e8f9d708c394fab2d")
	_, _, err := frame.Decode(buf)
	if err == nil {
		t.Fatal("expected an error for unrecognized flag bits")
	}
}

func TestDecodeNeedsMoreDataForLengthPrefix(t *testing.T) {
	t.Parallel()

	f, n, err := frame.Decode([]byte{0x01, 0x02})
	if err != nil || f != nil || n != 0 {
		t.Fatalf("Decode(2 bytes) = (%v, %d, %v), want (nil, 0, nil)", f, n, err)
	}
}
