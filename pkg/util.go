package pkg

import (
	"os"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// PathExists returns whether the given file or directory exists
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return isDir == stat.IsDir(), nil
}

// EnsureDir creates dir, with parents, unless it already exists.
func EnsureDir(dir string) error {
	exists, err := PathExists(dir, true)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
