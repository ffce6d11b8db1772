package file

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// DefaultPermissionOctal is the default file and folder permission octal used
// throughout the project
const DefaultPermissionOctal os.FileMode = 0o770

var errEmptyPath = errors.New("empty path")

// Write writes selected data to a file or returns an error if it fails. This
// func also ensures that all files are set to this permission (only rw access
// for the running user and the group the user is a member of)
func Write(file string, data []byte) error {
	if file == "" {
		return errEmptyPath
	}
	basePath := filepath.Dir(file)
	if !Exists(basePath) {
		if err := os.MkdirAll(basePath, DefaultPermissionOctal); err != nil {
			return err
		}
	}
	return os.WriteFile(file, data, DefaultPermissionOctal)
}

// Writer creates a file, and any missing parent directories, returning a
// WriteCloser for streaming output
func Writer(file string) (io.WriteCloser, error) {
	if file == "" {
		return nil, errEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(file), DefaultPermissionOctal); err != nil {
		return nil, err
	}
	return os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, DefaultPermissionOctal)
}

// Exists returns whether or not a file or path exists
func Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
