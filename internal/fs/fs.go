// Package fs contains the file system helpers of the wallet: creating the storage directory
// and writing rendered views atomically.
package fs

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
)

// EnsureDirectoryExists creates path and its parents with owner-only permissions, unless it
// already exists. It is an error if path exists and is not a directory.
func EnsureDirectoryExists(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return errors.Errorf("%s is not a directory", path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return errors.WrapPrefix(err, "could not stat "+path, 0)
	}
	return os.MkdirAll(path, 0700)
}

// SaveFile saves the content at the specified path atomically:
// it is first written to a temp file with a random name in the same directory,
// which is then renamed to path, overwriting any existing file.
func SaveFile(path string, content []byte) error {
	randBytes := make([]byte, 16)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.WrapPrefix(err, "could not generate temp file name", 0)
	}
	temp := filepath.Join(filepath.Dir(path), "."+hex.EncodeToString(randBytes))

	if err := os.WriteFile(temp, content, 0600); err != nil {
		return errors.WrapPrefix(err, "could not write "+temp, 0)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return errors.WrapPrefix(err, "could not rename "+temp, 0)
	}
	return nil
}
