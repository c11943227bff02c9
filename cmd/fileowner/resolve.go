package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve user and group specifiers",
	Long: `Resolve a user or group name to its ID, or an ID to its name.

Prints "ID NAME". NAME is "-" when an ID has no database entry; unknown
names are an error.`,
}

var resolveUserCmd = &cobra.Command{
	Use:   "user SPEC",
	Short: "Resolve a user name or UID",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return resolveUser(os.Stdout, owner.NewResolver(nil), args[0])
	},
}

var resolveGroupCmd = &cobra.Command{
	Use:   "group SPEC",
	Short: "Resolve a group name or GID",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return resolveGroup(os.Stdout, owner.NewResolver(nil), args[0])
	},
}

func init() {
	resolveCmd.AddCommand(resolveUserCmd)
	resolveCmd.AddCommand(resolveGroupCmd)
	rootCmd.AddCommand(resolveCmd)
}

func resolveUser(w io.Writer, r *owner.Resolver, text string) error {
	spec, err := owner.ParseSpec(text)
	if err != nil {
		return err
	}
	o, err := r.ResolveUser(spec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d %s\n", o.ID, dashIfEmpty(o.Name))
	return err
}

func resolveGroup(w io.Writer, r *owner.Resolver, text string) error {
	spec, err := owner.ParseSpec(text)
	if err != nil {
		return err
	}
	g, err := r.ResolveGroup(spec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d %s\n", g.ID, dashIfEmpty(g.Name))
	return err
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
