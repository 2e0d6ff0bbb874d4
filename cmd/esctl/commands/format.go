package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when --format names a format esctl doesn't know.
var errUnsupportedFormat = errors.New("unsupported output format")

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabwriter returns a tabwriter configured like the rest of esctl's table output.
func newTabwriter(buf *strings.Builder) *tabwriter.Writer {
	return tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
}

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatTable:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}
