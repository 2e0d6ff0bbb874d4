// Package commands implements the esctl CLI commands.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dantte-lp/goeventstore/internal/transport"
)

var (
	// serverAddr is the EventStore node address (host:port) to connect to.
	serverAddr string

	// username/password are optional credentials attached to every frame.
	username string
	password string

	// dialTimeout bounds how long connecting to serverAddr may take.
	dialTimeout time.Duration

	// requestTimeout bounds how long a single request may take once sent.
	requestTimeout time.Duration

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string
)

// rootCmd is the top-level cobra command for esctl.
var rootCmd = &cobra.Command{
	Use:   "esctl",
	Short: "CLI client for the EventStore TCP wire protocol",
	Long:  "esctl dials an EventStore node directly over its TCP wire protocol to exercise reads and writes.",
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "127.0.0.1:1113",
		"EventStore node address (host:port)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "optional username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "optional password")
	rootCmd.PersistentFlags().DurationVar(&dialTimeout, "dial-timeout", 5*time.Second, "connection dial timeout")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", 5*time.Second, "per-request timeout")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table, json")

	rootCmd.AddCommand(pingCmd())
	rootCmd.AddCommand(writeEventsCmd())
	rootCmd.AddCommand(readStreamCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// dial opens a connection to serverAddr for the duration of a single
// command invocation. Every esctl subcommand is one-shot: dial, send one
// request, print the result, close.
func dial(ctx context.Context) (*transport.Connection, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, err := transport.Dial(dialCtx, transport.Config{
		Addr:              serverAddr,
		Username:          username,
		Password:          password,
		DialTimeout:       dialTimeout,
		WriteTimeout:      requestTimeout,
		PendingBufferSize: 8,
	}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", serverAddr, err)
	}
	return conn, nil
}

// requestContext derives a fresh per-request timeout context from ctx.
func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, requestTimeout)
}
