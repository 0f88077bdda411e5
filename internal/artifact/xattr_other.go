//go:build !darwin && !linux

package artifact

func setXattr(path, name string, data []byte) error {
	return errUnsupported
}

func removeXattr(path, name string) error {
	return errUnsupported
}

func getXattr(path, name string) ([]byte, error) {
	return nil, errUnsupported
}
