//go:build unix

package storage

import (
	"os"

	"golang.org/x/sys/unix"
)

func checkReadable(path string) error {
	if err := unix.Access(path, unix.R_OK); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}
