// Package watch reports ownership changes on paths as they happen.
package watch

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jamesainslie/fileowner/pkg/fileowner/logging"
	"github.com/jamesainslie/fileowner/pkg/fileowner/owner"
)

// Change is an observed ownership change. Err is set instead of the new
// identities when the path can no longer be inspected, after which the
// path is no longer watched.
type Change struct {
	Path     string
	OldOwner owner.Owner
	OldGroup owner.Group
	NewOwner owner.Owner
	NewGroup owner.Group
	Err      error
}

type state struct {
	owner owner.Owner
	group owner.Group
}

// Watcher tracks the owner and group of a set of paths. Attribute change
// notifications trigger a fresh read, and a Change is reported only when
// the UID or GID actually differs from the last one seen.
type Watcher struct {
	chowner *owner.Chowner
	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	known   map[string]state
	closed  bool
}

// New creates a Watcher that reads ownership through c.
func New(c *owner.Chowner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		chowner: c,
		fsw:     fsw,
		known:   make(map[string]state),
	}, nil
}

// Add starts watching path, recording its current ownership as the
// baseline.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)

	o, g, err := w.chowner.GetOwnerGroup(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if _, ok := w.known[path]; ok {
		return nil
	}

	if err := w.fsw.Add(path); err != nil {
		return err
	}
	w.known[path] = state{owner: o, group: g}
	logging.Get("watch").Debug("watching", "path", path, "owner", o.String(), "group", g.String())
	return nil
}

// Len returns the number of watched paths.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.known)
}

// Run delivers changes to onChange until ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if c, changed := w.handleEvent(event); changed && onChange != nil {
				onChange(c)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Get("watch").Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Chmod|fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return Change{}, false
	}
	return w.check(event.Name)
}

// check re-reads the ownership of path and reports whether it differs
// from the recorded state.
func (w *Watcher) check(path string) (Change, bool) {
	path = filepath.Clean(path)

	w.mu.Lock()
	prev, ok := w.known[path]
	w.mu.Unlock()
	if !ok {
		return Change{}, false
	}

	c := Change{Path: path, OldOwner: prev.owner, OldGroup: prev.group}

	o, g, err := w.chowner.GetOwnerGroup(path)
	if err != nil {
		c.Err = err
		w.forget(path)
		return c, true
	}

	if o.ID == prev.owner.ID && g.ID == prev.group.ID {
		return Change{}, false
	}

	w.mu.Lock()
	w.known[path] = state{owner: o, group: g}
	w.mu.Unlock()

	c.NewOwner, c.NewGroup = o, g
	logging.Get("watch").Info("ownership changed", "path", path,
		"owner", prev.owner.String()+" -> "+o.String(),
		"group", prev.group.String()+" -> "+g.String())
	return c, true
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.known, path)
	if !w.closed {
		_ = w.fsw.Remove(path)
	}
}

// Close stops watching all paths.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
