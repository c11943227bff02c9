package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fileowner/pkg/fileowner/config"
	"github.com/jamesainslie/fileowner/pkg/fileowner/journal"
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded ownership changes",
	Long: `View the journal of ownership changes made by "fileowner set".

Entry IDs may be abbreviated to any unique prefix.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show details of a recorded change",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRevertCmd = &cobra.Command{
	Use:   "revert ID",
	Short: "Restore the owner and group from before a change",
	Long: `Restore the owner and group a path had before a recorded change,
with a single chown call. The revert is journaled too.

If the path was changed again since, the revert is refused unless --force
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryRevert,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old journal entries",
	Long:  `Remove journal entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	revertForce  bool
	cleanDays    int
)

var errPathDrifted = errors.New("path changed since the entry was recorded")

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historyRevertCmd.Flags().BoolVarP(&revertForce, "force", "f", false, "revert even if the path changed since")
	historyCleanCmd.Flags().IntVar(&cleanDays, "days", 0, "retention in days (default: journal.retention_days)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRevertCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// withJournal loads the configuration and runs fn with an open journal.
func withJournal(fn func(*config.Config, *journal.Journal) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	return fn(cfg, j)
}

// runHistory lists recent changes.
func runHistory(_ *cobra.Command, _ []string) error {
	return withJournal(func(_ *config.Config, j *journal.Journal) error {
		entries, err := j.List(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(entries) == 0 {
			printInfo("No history entries found.")
			printInfo("Changes made with 'fileowner set' are recorded here.")
			return nil
		}

		fmt.Print(formatHistory(entries, time.Now()))
		fmt.Println("\nUse 'fileowner history show <id>' for details on a specific entry.")
		return nil
	})
}

// formatHistory renders entries as a table relative to now.
func formatHistory(entries []journal.Entry, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-8s  %-16s  %-6s  %-24s  %s\n", "ID", "WHEN", "OP", "CHANGE", "PATH")
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, e := range entries {
		change := formatSnapshot(e.Before) + " -> " + formatSnapshot(e.After)
		fmt.Fprintf(&sb, "%-8s  %-16s  %-6s  %-24s  %s\n",
			shortID(e.ID),
			humanize.RelTime(e.Timestamp, now, "ago", "from now"),
			e.Operation,
			truncateString(change, 24),
			e.Path,
		)
	}

	return sb.String()
}

// runHistoryShow displays one entry.
func runHistoryShow(_ *cobra.Command, args []string) error {
	return withJournal(func(_ *config.Config, j *journal.Journal) error {
		entry, err := j.Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		fmt.Print(formatEntry(entry))
		return nil
	})
}

// formatEntry renders the details of one entry.
func formatEntry(e *journal.Entry) string {
	var sb strings.Builder

	sb.WriteString("Change Details\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "ID:         %s\n", e.ID)
	fmt.Fprintf(&sb, "Timestamp:  %s (%s)\n", e.Timestamp.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(e.Timestamp))
	fmt.Fprintf(&sb, "Operation:  %s\n", e.Operation)
	if e.RevertOf != "" {
		fmt.Fprintf(&sb, "Reverts:    %s\n", e.RevertOf)
	}
	fmt.Fprintf(&sb, "Path:       %s\n", e.Path)
	if e.NoFollow {
		sb.WriteString("Symlinks:   not followed\n")
	}
	fmt.Fprintf(&sb, "Before:     uid %d (%s), gid %d (%s)\n",
		e.Before.UID, dashIfEmpty(e.Before.UserName), e.Before.GID, dashIfEmpty(e.Before.GroupName))
	fmt.Fprintf(&sb, "After:      uid %d (%s), gid %d (%s)\n",
		e.After.UID, dashIfEmpty(e.After.UserName), e.After.GID, dashIfEmpty(e.After.GroupName))

	return sb.String()
}

// runHistoryRevert undoes one entry.
func runHistoryRevert(_ *cobra.Command, args []string) error {
	return withJournal(func(_ *config.Config, j *journal.Journal) error {
		entry, err := j.Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}

		var opts []owner.Option
		if entry.NoFollow {
			opts = append(opts, owner.WithNoFollow())
		}

		reverted, err := revertEntry(owner.New(opts...), j, entry, revertForce)
		if err != nil {
			return err
		}

		printInfo("Reverted %s: %s -> %s (journal %s)", entry.Path,
			formatSnapshot(reverted.Before), formatSnapshot(reverted.After), shortID(reverted.ID))
		return nil
	})
}

// revertEntry restores entry.Before on entry.Path with one SetOwnerGroup
// call and journals the revert. Unless force is set it refuses when the
// path no longer has the ownership the entry left it with.
func revertEntry(c *owner.Chowner, j *journal.Journal, entry *journal.Entry, force bool) (*journal.Entry, error) {
	o, g, err := c.GetOwnerGroup(entry.Path)
	if err != nil {
		return nil, err
	}
	current := journal.NewSnapshot(o, g)

	if !force && (current.UID != entry.After.UID || current.GID != entry.After.GID) {
		return nil, fmt.Errorf("%w: %s is %s, entry left it %s (use --force)",
			errPathDrifted, entry.Path, formatSnapshot(current), formatSnapshot(entry.After))
	}

	if err := c.SetOwnerGroup(entry.Path, owner.ByID(entry.Before.UID), owner.ByID(entry.Before.GID)); err != nil {
		return nil, err
	}

	o, g, err = c.GetOwnerGroup(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("reading back %s: %w", entry.Path, err)
	}

	revert := journal.Entry{
		Operation: journal.OpRevert,
		Path:      entry.Path,
		Before:    current,
		After:     journal.NewSnapshot(o, g),
		NoFollow:  entry.NoFollow,
		RevertOf:  entry.ID,
	}

	recorded, err := j.Record(revert)
	if err != nil {
		logging.Get("cli").Warn("journal write failed", "path", entry.Path, "error", err)
		return &revert, nil
	}
	return recorded, nil
}

// runHistoryClean removes old entries.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	return withJournal(func(cfg *config.Config, j *journal.Journal) error {
		days := retentionDays(cleanDays, cfg.Journal.RetentionDays)
		printVerbose("Cleaning journal entries older than %d days", days)

		removed, err := j.Cleanup(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return fmt.Errorf("failed to clean history: %w", err)
		}

		printInfo("Removed %d %s older than %d days.", removed, pluralEntries(removed), days)
		return nil
	})
}

// retentionDays picks the flag value, then the configured value, then the
// default.
func retentionDays(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	if configured > 0 {
		return configured
	}
	return config.DefaultRetentionDays
}

func pluralEntries(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

// shortID abbreviates a journal ID for display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
