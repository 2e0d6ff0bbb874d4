package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dantte-lp/goeventstore/internal/adapted"
	"github.com/dantte-lp/goeventstore/internal/builder"
	"github.com/dantte-lp/goeventstore/internal/payload"
	"github.com/dantte-lp/goeventstore/internal/wire"
)

func readStreamCmd() *cobra.Command {
	var (
		from           string
		count          int32
		backward       bool
		resolveLinkTos bool
		requireMaster  bool
	)

	cmd := &cobra.Command{
		Use:   "read-stream <stream-id>",
		Short: "Read a slice of events from a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(outputFormat); err != nil {
				return err
			}
			streamID := args[0]

			fromNum, err := parseEventNumber(from)
			if err != nil {
				return err
			}

			var b *builder.ReadStreamEventsBuilder
			if backward {
				b = builder.ReadStreamEventsBackward(streamID, fromNum, count)
			} else {
				b = builder.ReadStreamEventsForward(streamID, fromNum, count)
			}
			b = b.ResolveLinkTos(resolveLinkTos).RequireMaster(requireMaster)

			conn, err := dial(context.Background())
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := requestContext(context.Background())
			defer cancel()

			msg, err := conn.Send(ctx, b.BuildMessage())
			if err != nil {
				return fmt.Errorf("read stream: %w", err)
			}

			return printReadStreamResult(msg, outputFormat)
		},
	}

	cmd.Flags().StringVar(&from, "from", "first", "first, last, or an exact event number")
	cmd.Flags().Int32Var(&count, "count", 20, "maximum number of events to return")
	cmd.Flags().BoolVar(&backward, "backward", false, "read backward instead of forward")
	cmd.Flags().BoolVar(&resolveLinkTos, "resolve-link-tos", false, "resolve link events to their target")
	cmd.Flags().BoolVar(&requireMaster, "require-master", false, "require the read to reach the cluster master")

	return cmd
}

func parseEventNumber(s string) (wire.EventNumber, error) {
	switch s {
	case "first":
		return wire.First(), nil
	case "last":
		return wire.Last(), nil
	}

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return wire.EventNumber{}, fmt.Errorf("%q: event number must be \"first\", \"last\", or a non-negative integer", s)
	}
	sv, err := wire.NewStreamVersion(int32(n))
	if err != nil {
		return wire.EventNumber{}, fmt.Errorf("%q: %w", s, err)
	}
	return wire.ExactEventNumber(sv), nil
}

type resolvedEventView struct {
	EventNumber int32  `json:"event_number"`
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	Data        string `json:"data"`
	IsLink      bool   `json:"is_link"`
}

func newResolvedEventView(e payload.ResolvedIndexedEvent) resolvedEventView {
	return resolvedEventView{
		EventNumber: e.Event.EventNumber,
		EventID:     formatEventID(e.Event.EventID),
		EventType:   e.Event.EventType,
		Data:        string(e.Event.Data),
		IsLink:      e.Link != nil,
	}
}

func formatEventID(raw []byte) string {
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return fmt.Sprintf("%x", raw)
	}
	return id.String()
}

func printReadStreamResult(msg adapted.Message, format string) error {
	if msg.ReadStreamErr != nil {
		return fmt.Errorf("read stream rejected: %s", msg.ReadStreamErr.Error())
	}
	if msg.ReadStreamOK == nil {
		return fmt.Errorf("read stream: unexpected reply")
	}

	ok := msg.ReadStreamOK
	views := make([]resolvedEventView, len(ok.Events))
	for i, e := range ok.Events {
		views[i] = newResolvedEventView(e)
	}

	switch format {
	case formatJSON:
		return printJSON(map[string]any{
			"events":               views,
			"end_of_stream":        ok.EndOfStream,
			"last_event_number":    ok.LastEventNumber.Int32(),
			"last_commit_position": ok.LastCommitPosition,
		})
	default:
		return printReadStreamTable(views, ok)
	}
}

func printReadStreamTable(views []resolvedEventView, ok *adapted.ReadStreamCompleted) error {
	var buf strings.Builder
	w := newTabwriter(&buf)
	fmt.Fprintln(w, "NUMBER\tEVENT-ID\tTYPE\tLINK\tDATA")
	for _, v := range views {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", v.EventNumber, v.EventID, v.EventType, v.IsLink, truncate(v.Data, 60))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush tabwriter: %w", err)
	}
	fmt.Print(buf.String())
	fmt.Printf("end of stream: %t, last event number: %d, last commit position: %d\n",
		ok.EndOfStream, ok.LastEventNumber.Int32(), ok.LastCommitPosition)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
