//go:build unix

package owner

import (
	"errors"

	"golang.org/x/sys/unix"
)

type unixFileSystem struct{}

func newFileSystem() fileSystem {
	return unixFileSystem{}
}

func (unixFileSystem) Chown(path string, uid, gid int, follow bool) error {
	op, chown := "chown", unix.Chown
	if !follow {
		op, chown = "lchown", unix.Lchown
	}
	if err := chown(path, uid, gid); err != nil {
		return classify(op, path, err)
	}
	return nil
}

func (unixFileSystem) Stat(path string, follow bool) (uint32, uint32, error) {
	op, stat := "stat", unix.Stat
	if !follow {
		op, stat = "lstat", unix.Lstat
	}

	var st unix.Stat_t
	if err := stat(path, &st); err != nil {
		return 0, 0, classify(op, path, err)
	}
	return st.Uid, st.Gid, nil
}

// classify maps an errno onto the package's error kinds, keeping the
// errno as the cause.
func classify(op, path string, err error) error {
	kind := ErrIO
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENOTDIR):
		kind = ErrPathNotFound
	case errors.Is(err, unix.EPERM), errors.Is(err, unix.EACCES):
		kind = ErrPermissionDenied
	}
	return newError(op, path, kind, err)
}
