package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as an aligned OWNER GROUP PATH table
// without colors. Failed paths are left to the caller's error output.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := fmt.Fprint(tw, "OWNER\tGROUP\tPATH\n"); err != nil {
		return err
	}

	for _, rec := range r.Records {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.OwnerString(), rec.GroupString(), rec.Path); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
