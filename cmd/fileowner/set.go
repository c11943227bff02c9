package main

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/fileowner/pkg/fileowner/journal"
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set [--owner SPEC] [--group SPEC] PATH",
	Short: "Change the owner and/or group of a path",
	Long: `Change the owner, the group, or both, of a single path.

SPEC is a user or group name, or a numeric ID. All-digit values are IDs,
and a leading "+" marks an ID explicitly (e.g. +1000). Changing both uses
one chown call.

The previous owner and group are recorded in the journal so the change
can be undone with "fileowner history revert".`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var (
	setOwner  string
	setGroup  string
	setDryRun bool
)

func init() {
	setCmd.Flags().StringVarP(&setOwner, "owner", "u", "", "new owner (name or UID)")
	setCmd.Flags().StringVarP(&setGroup, "group", "g", "", "new group (name or GID)")
	setCmd.Flags().BoolVarP(&setDryRun, "dry-run", "d", false, "show the change without applying it")
	rootCmd.AddCommand(setCmd)
}

// changeRequest is a parsed "set" invocation.
type changeRequest struct {
	path     string
	owner    *owner.Spec
	group    *owner.Spec
	noFollow bool
}

// parseChangeRequest validates the owner and group flags.
func parseChangeRequest(path, ownerText, groupText string, noFollow bool) (changeRequest, error) {
	req := changeRequest{path: path, noFollow: noFollow}
	if ownerText == "" && groupText == "" {
		return req, errors.New("at least one of --owner or --group is required")
	}

	if ownerText != "" {
		s, err := owner.ParseSpec(ownerText)
		if err != nil {
			return req, err
		}
		req.owner = &s
	}

	if groupText != "" {
		s, err := owner.ParseSpec(groupText)
		if err != nil {
			return req, err
		}
		req.group = &s
	}

	return req, nil
}

// target is a request with its names resolved to IDs.
type target struct {
	owner *owner.Owner
	group *owner.Group
}

// resolve converts the request's specifiers to identities without touching
// the path, so an unknown name fails before anything changes.
func (r changeRequest) resolve(c *owner.Chowner) (target, error) {
	var t target

	if r.owner != nil {
		o, err := c.Resolver().ResolveUser(*r.owner)
		if err != nil {
			return t, err
		}
		t.owner = &o
	}

	if r.group != nil {
		g, err := c.Resolver().ResolveGroup(*r.group)
		if err != nil {
			return t, err
		}
		t.group = &g
	}

	return t, nil
}

// after returns the snapshot the path has once t is applied to before.
func (t target) after(before journal.Snapshot) journal.Snapshot {
	s := before
	if t.owner != nil {
		s.UID, s.UserName = t.owner.ID, t.owner.Name
	}
	if t.group != nil {
		s.GID, s.GroupName = t.group.ID, t.group.Name
	}
	return s
}

// apply issues the single set call matching the target.
func (t target) apply(c *owner.Chowner, path string) error {
	switch {
	case t.owner != nil && t.group != nil:
		return c.SetOwnerGroup(path, owner.ByID(t.owner.ID), owner.ByID(t.group.ID))
	case t.owner != nil:
		return c.SetOwner(path, owner.ByID(t.owner.ID))
	default:
		return c.SetGroup(path, owner.ByID(t.group.ID))
	}
}

// applyChange performs req and journals it when j is non-nil. Names are
// resolved before the path is touched, so an unknown name changes nothing.
// No-op changes are not journaled. A journal failure is logged but does
// not fail the change.
func applyChange(c *owner.Chowner, j *journal.Journal, req changeRequest) (*journal.Entry, error) {
	log := logging.Get("cli")

	t, err := req.resolve(c)
	if err != nil {
		return nil, err
	}

	o, g, err := c.GetOwnerGroup(req.path)
	if err != nil {
		return nil, err
	}
	before := journal.NewSnapshot(o, g)

	if err := t.apply(c, req.path); err != nil {
		return nil, err
	}

	o, g, err = c.GetOwnerGroup(req.path)
	if err != nil {
		return nil, fmt.Errorf("reading back %s: %w", req.path, err)
	}

	entry := &journal.Entry{
		Operation: journal.OpSet,
		Path:      req.path,
		Before:    before,
		After:     journal.NewSnapshot(o, g),
		NoFollow:  req.noFollow,
	}
	log.Info("ownership changed", "path", req.path,
		"before", formatSnapshot(entry.Before), "after", formatSnapshot(entry.After))

	if j == nil || !entry.Changed() {
		return entry, nil
	}

	recorded, err := j.Record(*entry)
	if err != nil {
		log.Warn("journal write failed", "path", req.path, "error", err)
		return entry, nil
	}
	return recorded, nil
}

// runSet applies one ownership change.
func runSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := parseChangeRequest(args[0], setOwner, setGroup, cfg.NoFollow)
	if err != nil {
		return err
	}

	c := newChowner(cfg)

	if setDryRun {
		t, err := req.resolve(c)
		if err != nil {
			return err
		}
		o, g, err := c.GetOwnerGroup(req.path)
		if err != nil {
			return err
		}
		before := journal.NewSnapshot(o, g)
		printInfo("Would change %s: %s -> %s", req.path, formatSnapshot(before), formatSnapshot(t.after(before)))
		return nil
	}

	var j *journal.Journal
	if cfg.Journal.Enabled {
		j, err = openJournal(cfg)
		if err != nil {
			printWarn("journal unavailable, change will not be recorded: %v", err)
			j = nil
		} else {
			defer j.Close()
		}
	}

	entry, err := applyChange(c, j, req)
	if err != nil {
		return err
	}

	if !entry.Changed() {
		printInfo("%s already %s", req.path, formatSnapshot(entry.After))
		return nil
	}

	if entry.ID != "" {
		printInfo("Changed %s: %s -> %s (journal %s)", req.path,
			formatSnapshot(entry.Before), formatSnapshot(entry.After), shortID(entry.ID))
	} else {
		printInfo("Changed %s: %s -> %s", req.path, formatSnapshot(entry.Before), formatSnapshot(entry.After))
	}
	return nil
}

// formatSnapshot renders a snapshot as owner:group, names preferred.
func formatSnapshot(s journal.Snapshot) string {
	return s.Owner().String() + ":" + s.Group().String()
}
