//go:build !unix

package storage

import "os"

// No access(2) outside unix: opening for read is the closest equivalent.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
