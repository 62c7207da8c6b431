//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	flagExclusive     = 0x00000002 // LOCKFILE_EXCLUSIVE_LOCK
	flagFailImmediate = 0x00000001 // LOCKFILE_FAIL_IMMEDIATELY
	retryInterval     = time.Millisecond
)

// lockFile polls LockFileEx in non-blocking mode; a blocking call would pin
// the OS thread under the Go scheduler.
func lockFile(f *os.File) error {
	h := windows.Handle(f.Fd())
	for {
		err := windows.LockFileEx(h, flagExclusive|flagFailImmediate, 0, 1, 0, new(windows.Overlapped))
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}
