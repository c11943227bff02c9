package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// IDs without a database entry are highlighted.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatTable(r))

	if len(r.Errors) > 0 {
		w.WriteString(f.formatErrors(r.Errors))
		w.WriteString("\n")
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")
	return nil
}

// formatTable builds the OWNER GROUP PATH table.
func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Records) == 0 {
		return MutedStyle.Render("  No paths inspected") + "\n"
	}

	ownerWidth, groupWidth := len("OWNER"), len("GROUP")
	for _, rec := range r.Records {
		ownerWidth = max(ownerWidth, len(rec.OwnerString()))
		groupWidth = max(groupWidth, len(rec.GroupString()))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s  %s  %s\n",
		TableHeaderStyle.Render(padRight("OWNER", ownerWidth)),
		TableHeaderStyle.Render(padRight("GROUP", groupWidth)),
		TableHeaderStyle.Render("PATH"))

	for _, rec := range r.Records {
		fmt.Fprintf(&sb, "  %s  %s  %s\n",
			identityStyle(rec.User).Render(padRight(rec.OwnerString(), ownerWidth)),
			identityStyle(rec.Group).Render(padRight(rec.GroupString(), groupWidth)),
			PathStyle.Render(rec.Path))
	}

	return sb.String()
}

// formatErrors builds the failed paths block.
func (f *PrettyFormatter) formatErrors(errs []RecordError) string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, ErrorStyle.Bold(true).Render("Failed:"))
	for _, e := range errs {
		lines = append(lines, ErrorStyle.Render(e.Error))
	}
	return ErrorBox.Render(strings.Join(lines, "\n"))
}

// formatFooter builds the summary box.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := []string{
		LabelStyle.Render("Paths:") + " " + ValueStyle.Render(fmt.Sprintf("%d", len(r.Records)+len(r.Errors))),
	}

	if n := len(r.Errors); n > 0 {
		parts = append(parts, LabelStyle.Render("Failed:")+" "+ErrorStyle.Render(fmt.Sprintf("%d", n)))
	}

	if orphans := countOrphans(r.Records); orphans > 0 {
		parts = append(parts, LabelStyle.Render("Unnamed IDs:")+" "+OrphanStyle.Render(fmt.Sprintf("%d", orphans)))
	}

	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))
	return FooterBox.Render(strings.Join(parts, "  "))
}

func identityStyle(name string) lipgloss.Style {
	if name == "" {
		return OrphanStyle
	}
	return NameStyle
}

func countOrphans(records []Record) int {
	n := 0
	for _, rec := range records {
		if rec.User == "" || rec.Group == "" {
			n++
		}
	}
	return n
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
