package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/goeventstore/internal/adapted"
	"github.com/dantte-lp/goeventstore/internal/builder"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

var errInvalidExpectedVersion = errors.New("expected-version must be \"any\", \"no-stream\", or a non-negative integer")

func writeEventsCmd() *cobra.Command {
	var (
		eventType       string
		data            string
		metadata        string
		expectedVersion string
		json            bool
		requireMaster   bool
	)

	cmd := &cobra.Command{
		Use:   "write-events <stream-id>",
		Short: "Append a single event to a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			streamID := args[0]

			ev, err := parseExpectedVersion(expectedVersion)
			if err != nil {
				return err
			}

			b := builder.WriteEvents().
				StreamID(streamID).
				ExpectedVersion(ev).
				RequireMaster(requireMaster)

			b = b.NewEvent().
				EventType(eventType).
				Data([]byte(data)).
				DataContentType(json).
				Metadata([]byte(metadata)).
				MetadataContentType(json).
				Done()

			conn, err := dial(context.Background())
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := requestContext(context.Background())
			defer cancel()

			msg, err := conn.Send(ctx, b.BuildMessage())
			if err != nil {
				return fmt.Errorf("write events: %w", err)
			}

			return printWriteResult(msg, outputFormat)
		},
	}

	cmd.Flags().StringVar(&eventType, "type", "", "event type (required)")
	cmd.Flags().StringVar(&data, "data", "{}", "event body")
	cmd.Flags().StringVar(&metadata, "metadata", "", "event metadata")
	cmd.Flags().StringVar(&expectedVersion, "expected-version", "any", "any, no-stream, or an exact version number")
	cmd.Flags().BoolVar(&json, "json", true, "mark data/metadata content type as JSON")
	cmd.Flags().BoolVar(&requireMaster, "require-master", false, "require the write to reach the cluster master")
	cmd.MarkFlagRequired("type")

	return cmd
}

func parseExpectedVersion(s string) (wire.ExpectedVersion, error) {
	switch s {
	case "any":
		return wire.AnyVersion(), nil
	case "no-stream":
		return wire.NoStreamVersion(), nil
	}

	var n int32
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return wire.ExpectedVersion{}, fmt.Errorf("%q: %w", s, errInvalidExpectedVersion)
	}
	sv, err := wire.NewStreamVersion(n)
	if err != nil {
		return wire.ExpectedVersion{}, fmt.Errorf("%q: %w", s, err)
	}
	return wire.ExactExpectedVersion(sv), nil
}

func printWriteResult(msg adapted.Message, format string) error {
	if msg.WriteEventsErr != nil {
		return fmt.Errorf("write rejected: %s", msg.WriteEventsErr.Error())
	}
	if msg.WriteEventsOK == nil {
		return fmt.Errorf("write events: unexpected reply")
	}

	ok := msg.WriteEventsOK
	first := ok.FirstEventNumber.Int32()
	// LastEventNumber is the half-open end of the written range (one past
	// the last event actually appended), matching the adapted layer's
	// [first, last) convention rather than the wire's inclusive pair.
	last := ok.LastEventNumber.Int32()

	var commit, prepare int64
	if ok.CommitPosition != nil {
		commit = ok.CommitPosition.Int64()
	}
	if ok.PreparePosition != nil {
		prepare = ok.PreparePosition.Int64()
	}

	switch format {
	case formatJSON:
		return printJSON(map[string]any{
			"first_event_number": first,
			"last_event_number":  last,
			"prepare_position":   prepare,
			"commit_position":    commit,
		})
	default:
		fmt.Printf("wrote events [%d, %d) (commit=%d, prepare=%d)\n", first, last, commit, prepare)
		return nil
	}
}
