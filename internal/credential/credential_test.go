package credential_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dantte-lp/goeventstore/internal/credential"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []credential.UsernamePassword{
		{Username: "admin", Password: "changeit"},
		{Username: "", Password: ""},
		{Username: strings.Repeat("x", 255), Password: strings.Repeat("y", 255)},
		{Username: "ops", Password: "p@ss w0rd!"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if _, err := tt.Encode(&buf); err != nil {
			t.Fatalf("Encode(%+v): %v", tt, err)
		}

		got, err := credential.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != tt {
			t.Fatalf("Decode() = %+v, want %+v", got, tt)
		}
	}
}

func TestNewRejectsOverlongFields(t *testing.T) {
	t.Parallel()

	_, err := credential.New(strings.Repeat("x", 256), "short")
	if err != credential.ErrFieldTooLong {
		t.Fatalf("New: err = %v, want ErrFieldTooLong", err)
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	// length-prefixed username "\xff\xfe" (invalid UTF-8), empty password.
	buf := bytes.NewBuffer([]byte{2, 0xff, 0xfe, 0})

	_, err := credential.Decode(buf)
	if !errors.Is(err, credential.ErrInvalidUTF8) {
		t.Fatalf("Decode: err = %v, want ErrInvalidUTF8", err)
	}
}

func TestEncodedLenMatchesEncode(t *testing.T) {
	t.Parallel()

	up := credential.UsernamePassword{Username: "admin", Password: "changeit"}
	var buf bytes.Buffer
	n, err := up.Encode(&buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != up.EncodedLen() {
		t.Fatalf("Encode wrote %d bytes, EncodedLen() = %d", n, up.EncodedLen())
	}
	if buf.Len() != up.EncodedLen() {
		t.Fatalf("buffer has %d bytes, EncodedLen() = %d", buf.Len(), up.EncodedLen())
	}
}
