package os

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// EnsureDir checks that dir exists, creating it with 0755 permissions when it
// does not, and optionally verifies that it is empty. Returns true when the
// directory was created by this call.
func EnsureDir(dir string, empty bool) (bool, error) {
	finfo, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if !finfo.IsDir() {
		return false, fmt.Errorf("%s is not a directory", dir)
	}

	if empty {
		isEmpty, err := IsDirEmpty(dir)
		if err != nil {
			return false, err
		}
		if !isEmpty {
			return false, fmt.Errorf("directory %s is not empty", dir)
		}
	}
	return false, nil
}

// IsDirEmpty returns true if the directory at path contains no entries.
func IsDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
