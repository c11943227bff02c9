package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesainslie/fileowner/pkg/fileowner/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch PATH...",
	Short: "Report ownership changes as they happen",
	Long: `Watch one or more paths and print a line whenever the owner or group
of one of them changes. Mode and content changes are ignored.

A path that is removed or renamed is reported once and then dropped.
Runs until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w, err := watch.New(newChowner(cfg))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	for _, path := range args {
		if err := w.Add(path); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	printVerbose("Watching %d %s", w.Len(), pluralPaths(w.Len()))

	w.Run(ctx, func(c watch.Change) {
		writeChange(os.Stdout, c, time.Now())
		if c.Err == nil {
			return
		}
		if w.Len() == 0 {
			cancel()
		}
	})
	return nil
}

// writeChange prints one observed change.
func writeChange(out io.Writer, c watch.Change, now time.Time) {
	stamp := now.Format("15:04:05")
	if c.Err != nil {
		fmt.Fprintf(out, "%s  %s: %v\n", stamp, c.Path, c.Err)
		return
	}
	fmt.Fprintf(out, "%s  %s: %s:%s -> %s:%s\n", stamp, c.Path,
		c.OldOwner, c.OldGroup, c.NewOwner, c.NewGroup)
}

func pluralPaths(n int) string {
	if n == 1 {
		return "path"
	}
	return "paths"
}
