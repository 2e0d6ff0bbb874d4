package adapted_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dantte-lp/goeventstore/internal/adapted"
	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

func TestAdaptSimplesRoundTrip(t *testing.T) {
	t.Parallel()

	kinds := []rawmsg.Kind{
		rawmsg.KindHeartbeatRequest,
		rawmsg.KindHeartbeatResponse,
		rawmsg.KindPing,
		rawmsg.KindPong,
		rawmsg.KindAuthenticate,
		rawmsg.KindAuthenticated,
	}

	for _, k := range kinds {
		raw := rawmsg.Message{Kind: k}
		m, err := adapted.TryAdapt(raw)
		if err != nil {
			t.Fatalf("TryAdapt(%v): %v", k, err)
		}
		if got := m.AsRaw(); !reflect.DeepEqual(got, raw) {
			t.Fatalf("AsRaw() = %+v, want %+v", got, raw)
		}
	}
}

func TestAdaptWriteEventsCompletedSuccess(t *testing.T) {
	t.Parallel()

	res := payload.ResultSuccess
	prep := int64(100)
	commit := int64(100)
	raw := rawmsg.Message{
		Kind: rawmsg.KindWriteEventsCompleted,
		WriteEventsCompleted: payload.WriteEventsCompleted{
			Result:           &res,
			FirstEventNumber: 30,
			LastEventNumber:  39,
			PreparePosition:  &prep,
			CommitPosition:   &commit,
		},
	}

	m, err := adapted.TryAdapt(raw)
	if err != nil {
		t.Fatalf("TryAdapt: %v", err)
	}
	if m.WriteEventsOK == nil {
		t.Fatalf("expected WriteEventsOK to be set")
	}
	// The wire pair is the inclusive range [30, 39]; the domain layer
	// represents it as the half-open range [30, 40).
	if m.WriteEventsOK.FirstEventNumber.Int32() != 30 || m.WriteEventsOK.LastEventNumber.Int32() != 40 {
		t.Fatalf("unexpected event numbers: %+v", m.WriteEventsOK)
	}

	back := m.AsRaw()
	if !reflect.DeepEqual(back, raw) {
		t.Fatalf("AsRaw() = %+v, want %+v", back, raw)
	}
}

func TestAdaptWriteEventsCompletedFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result  payload.OperationResult
		failure adapted.WriteEventsFailure
	}{
		{payload.ResultPrepareTimeout, adapted.WriteEventsPrepareTimeout},
		{payload.ResultCommitTimeout, adapted.WriteEventsCommitTimeout},
		{payload.ResultForwardTimeout, adapted.WriteEventsForwardTimeout},
		{payload.ResultWrongExpectedVersion, adapted.WriteEventsWrongExpectedVersion},
		{payload.ResultStreamDeleted, adapted.WriteEventsStreamDeleted},
		{payload.ResultAccessDenied, adapted.WriteEventsAccessDenied},
	}

	for _, tt := range tests {
		res := tt.result
		raw := rawmsg.Message{
			Kind: rawmsg.KindWriteEventsCompleted,
			WriteEventsCompleted: payload.WriteEventsCompleted{
				Result:           &res,
				FirstEventNumber: -1,
				LastEventNumber:  -1,
			},
		}

		m, err := adapted.TryAdapt(raw)
		if err != nil {
			t.Fatalf("TryAdapt(%v): %v", tt.result, err)
		}
		if m.WriteEventsErr == nil || *m.WriteEventsErr != tt.failure {
			t.Fatalf("TryAdapt(%v): WriteEventsErr = %v, want %v", tt.result, m.WriteEventsErr, tt.failure)
		}
		if !m.WriteEventsErr.IsTransient() && tt.failure != adapted.WriteEventsWrongExpectedVersion &&
			tt.failure != adapted.WriteEventsStreamDeleted && tt.failure != adapted.WriteEventsAccessDenied {
			t.Fatalf("expected %v to be transient", tt.failure)
		}

		back := m.AsRaw()
		if !reflect.DeepEqual(back, raw) {
			t.Fatalf("AsRaw() = %+v, want %+v", back, raw)
		}
	}
}

func TestAdaptWriteEventsCompletedInvalidTransaction(t *testing.T) {
	t.Parallel()

	res := payload.ResultInvalidTransaction
	raw := rawmsg.Message{
		Kind: rawmsg.KindWriteEventsCompleted,
		WriteEventsCompleted: payload.WriteEventsCompleted{
			Result:           &res,
			FirstEventNumber: -1,
			LastEventNumber:  -1,
		},
	}

	_, err := adapted.TryAdapt(raw)
	if err == nil {
		t.Fatal("expected an error for InvalidTransaction")
	}
	if !errors.Is(err, adapted.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}

	var convErr *adapted.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if convErr.Raw.Kind != rawmsg.KindWriteEventsCompleted {
		t.Fatalf("ConversionError lost the original raw message")
	}
}

func TestAdaptWriteEventsCompletedMissingResult(t *testing.T) {
	t.Parallel()

	raw := rawmsg.Message{Kind: rawmsg.KindWriteEventsCompleted}
	_, err := adapted.TryAdapt(raw)
	if !errors.Is(err, adapted.ErrMissingResult) {
		t.Fatalf("expected ErrMissingResult, got %v", err)
	}
}

func TestAdaptNotHandledWithMasterInfo(t *testing.T) {
	t.Parallel()

	master := payload.MasterInfo{
		ExternalTCPAddress:  "10.0.0.1",
		ExternalTCPPort:     1113,
		ExternalHTTPAddress: "10.0.0.1",
		ExternalHTTPPort:    2113,
	}
	reason := payload.NotMaster
	raw := rawmsg.Message{
		Kind: rawmsg.KindNotHandled,
		NotHandled: payload.NotHandled{
			Reason:         &reason,
			AdditionalInfo: master.Encode(),
		},
	}

	m, err := adapted.TryAdapt(raw)
	if err != nil {
		t.Fatalf("TryAdapt: %v", err)
	}
	if m.NotHandled.Master == nil {
		t.Fatal("expected Master to be populated for NotMaster reason")
	}
	if m.NotHandled.Master.ExternalTCPPort != 1113 {
		t.Fatalf("ExternalTCPPort = %d, want 1113", m.NotHandled.Master.ExternalTCPPort)
	}

	back := m.AsRaw()
	if back.NotHandled.Reason == nil || *back.NotHandled.Reason != payload.NotMaster {
		t.Fatalf("round-tripped reason = %v, want NotMaster", back.NotHandled.Reason)
	}
	var roundTripped payload.MasterInfo
	if err := roundTripped.Decode(back.NotHandled.AdditionalInfo); err != nil {
		t.Fatalf("decode round-tripped MasterInfo: %v", err)
	}
	if roundTripped.ExternalTCPPort != 1113 {
		t.Fatalf("round-tripped ExternalTCPPort = %d, want 1113", roundTripped.ExternalTCPPort)
	}
}

func TestAdaptReadAllEventsCompletedRoundTrip(t *testing.T) {
	t.Parallel()

	raw := rawmsg.Message{
		Kind:      rawmsg.KindReadAllEventsCompleted,
		Direction: wire.Forward,
		ReadAllEventsCompleted: payload.ReadAllEventsCompleted{
			CommitPosition:      0,
			PreparePosition:     0,
			NextCommitPosition:  500,
			NextPreparePosition: 500,
			Result:              payload.ReadAllSuccess,
		},
	}

	m, err := adapted.TryAdapt(raw)
	if err != nil {
		t.Fatalf("TryAdapt: %v", err)
	}
	if m.ReadAllOK == nil {
		t.Fatal("expected ReadAllOK to be set")
	}
	if m.ReadAllOK.NextCommitPosition == nil {
		t.Fatal("expected NextCommitPosition to be populated")
	}

	back := m.AsRaw()
	if !reflect.DeepEqual(back, raw) {
		t.Fatalf("AsRaw() = %+v, want %+v", back, raw)
	}
}

func TestAdaptReadAllEventsCompletedFailure(t *testing.T) {
	t.Parallel()

	msg := "stream not modified since last read"
	raw := rawmsg.Message{
		Kind:      rawmsg.KindReadAllEventsCompleted,
		Direction: wire.Backward,
		ReadAllEventsCompleted: payload.ReadAllEventsCompleted{
			NextCommitPosition:  -1,
			NextPreparePosition: -1,
			Result:              payload.ReadAllError,
			Error:               &msg,
		},
	}

	m, err := adapted.TryAdapt(raw)
	if err != nil {
		t.Fatalf("TryAdapt: %v", err)
	}
	if m.ReadAllErr == nil || m.ReadAllErr.Kind != adapted.ReadAllOtherError {
		t.Fatalf("ReadAllErr = %+v, want OtherError", m.ReadAllErr)
	}

	back := m.AsRaw()
	if !reflect.DeepEqual(back, raw) {
		t.Fatalf("AsRaw() = %+v, want %+v", back, raw)
	}
}

func TestAdaptUnsupportedDiscriminatorFails(t *testing.T) {
	t.Parallel()

	raw := rawmsg.Message{Kind: rawmsg.KindUnsupported, UnsupportedDiscriminator: 0x55}
	_, err := adapted.TryAdapt(raw)
	if !errors.Is(err, adapted.ErrUnsupportedDiscriminator) {
		t.Fatalf("expected ErrUnsupportedDiscriminator, got %v", err)
	}
}

func TestAdaptBadRequestRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	raw := rawmsg.Message{Kind: rawmsg.KindBadRequest, BadRequestInfo: []byte{0xff, 0xfe}}
	_, err := adapted.TryAdapt(raw)
	if !errors.Is(err, adapted.ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}

	var convErr *adapted.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if convErr.Raw.Kind != rawmsg.KindBadRequest {
		t.Fatalf("ConversionError lost the original raw message")
	}
}

func TestAdaptNotAuthenticatedRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	raw := rawmsg.Message{Kind: rawmsg.KindNotAuthenticated, NotAuthenticatedInfo: []byte{0xff, 0xfe}}
	_, err := adapted.TryAdapt(raw)
	if !errors.Is(err, adapted.ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}
