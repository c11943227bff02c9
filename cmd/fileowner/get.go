package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
	"github.com/jamesainslie/fileowner/pkg/fileowner/output"
	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get PATH...",
	Short: "Show the owner and group of paths",
	Long: `Show the owner and group of one or more paths.

IDs without a user or group database entry are shown numerically.
Paths that cannot be read are reported and make the command exit 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

var getTemplate string

func init() {
	getCmd.Flags().StringVar(&getTemplate, "template", "", "Go template for -o template (receives .Records)")
	rootCmd.AddCommand(getCmd)
}

// runGet inspects each path and renders the collected result.
func runGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := cfg.Output
	if getTemplate != "" {
		format = "template"
	}

	result := inspect(newChowner(cfg), args)

	if err := render(os.Stdout, format, getTemplate, result); err != nil {
		return err
	}

	if result.Failed() {
		if !formatReportsErrors(format) {
			for _, e := range result.Errors {
				printError("%s", e.Error)
			}
		}
		return errReported
	}
	return nil
}

// inspect reads the ownership of every path, collecting failures instead
// of stopping at the first one.
func inspect(c *owner.Chowner, paths []string) *output.Result {
	log := logging.Get("cli")
	result := &output.Result{}

	for _, path := range paths {
		o, g, err := c.GetOwnerGroup(path)
		if err != nil {
			log.Debug("get failed", "path", path, "error", err)
			result.AddError(path, err)
			continue
		}
		result.Add(path, o, g)
	}

	return result
}

// render formats result with the named formatter and writes it to w. A
// non-empty tmpl selects the template formatter.
func render(w io.Writer, format, tmpl string, result *output.Result) error {
	var formatter output.Formatter
	if tmpl != "" {
		formatter = output.NewTemplateFormatter(tmpl)
	} else {
		f, err := output.Get(format)
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, output.Available())
		}
		formatter = f
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// formatReportsErrors reports whether the format includes failed paths in
// its own output.
func formatReportsErrors(format string) bool {
	switch format {
	case "pretty", "json", "jsonl", "yaml":
		return true
	default:
		return false
	}
}
