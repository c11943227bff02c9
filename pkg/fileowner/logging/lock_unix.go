//go:build unix

package logging

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an exclusive advisory lock shared with other processes
// writing the same log.
func lockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

func unlockFile(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
