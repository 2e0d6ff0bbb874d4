package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/goeventstore/internal/builder"
	"github.com/dantte-lp/goeventstore/internal/rawmsg"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a Ping and report the round-trip time",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			conn, err := dial(context.Background())
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := requestContext(context.Background())
			defer cancel()

			start := time.Now()
			msg, err := conn.Send(ctx, builder.Ping())
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			if msg.Kind != rawmsg.KindPong {
				return fmt.Errorf("ping: unexpected reply kind %v", msg.Kind)
			}

			fmt.Printf("pong from %s in %s\n", serverAddr, elapsed)
			return nil
		},
	}
}
