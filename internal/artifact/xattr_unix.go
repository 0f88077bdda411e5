//go:build darwin || linux

package artifact

import (
	"errors"

	"golang.org/x/sys/unix"
)

func setXattr(path, name string, data []byte) error {
	return unix.Setxattr(path, name, data, 0)
}

// removeXattr deletes name from path; a missing attribute is not an error.
func removeXattr(path, name string) error {
	err := unix.Removexattr(path, name)
	if err != nil && errors.Is(err, errNoAttr) {
		return nil
	}
	return err
}

func getXattr(path, name string) ([]byte, error) {
	size, err := unix.Getxattr(path, name, nil)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	n, err := unix.Getxattr(path, name, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
