package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
)

// tableHeader is shared by the delimited formats. Names are empty when the
// ID has no database entry.
var tableHeader = []string{"PATH", "UID", "USER", "GID", "GROUP"}

func tableRow(rec Record) []string {
	return []string{
		rec.Path,
		strconv.FormatUint(uint64(rec.UID), 10),
		rec.User,
		strconv.FormatUint(uint64(rec.GID), 10),
		rec.Group,
	}
}

// TSVFormatter formats output as tab-separated values.
// It produces a simple table with a header row followed by data rows.
// Backslash, tab, newline and carriage return inside a field are written
// as \\, \t, \n and \r, so every record stays on one line.
type TSVFormatter struct{}

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(strings.Join(tableHeader, "\t"))
	w.WriteByte('\n')

	for _, rec := range r.Records {
		row := tableRow(rec)
		for i, field := range row {
			row[i] = tsvEscaper.Replace(field)
		}
		w.WriteString(strings.Join(row, "\t"))
		w.WriteByte('\n')
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader); err != nil {
		return err
	}

	for _, rec := range r.Records {
		if err := writer.Write(tableRow(rec)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("| OWNER | GROUP | PATH |\n")
	w.WriteString("|-------|-------|------|\n")

	for _, rec := range r.Records {
		w.WriteString("| " + escapeMarkdownPipe(rec.OwnerString()) +
			" | " + escapeMarkdownPipe(rec.GroupString()) +
			" | " + escapeMarkdownPipe(rec.Path) + " |\n")
	}

	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
